package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

type ActivityType string

const (
	ActivityCreate ActivityType = "create"
	ActivityUpdate ActivityType = "update"
	ActivityDelete ActivityType = "delete"
)

type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName        string    `gorm:"not null"`
	LastName         *string
	Email            string `gorm:"uniqueIndex;not null"`
	Phone            *string
	Address          *string
	State            *string
	Country          *string
	PasswordHash     *string
	Avatar           *string
	Bio              *string
	Gender           *string
	Role             Role `gorm:"type:varchar(20);default:customer"`
	FCMToken         *string
	IsVerified       bool   `gorm:"default:false"`
	TwoFactorEnabled bool   `gorm:"default:false"`
	IsOAuth          bool   `gorm:"default:false"`
	LoginProvider    string `gorm:"default:email"`
	ProfileCompleted bool   `gorm:"default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TokenKind distinguishes the three out-of-band code flows stored in one table.
type TokenKind string

const (
	TokenVerification  TokenKind = "verification"
	TokenPasswordReset TokenKind = "password_reset"
	TokenTwoFactor     TokenKind = "two_factor"
)

// OutOfBandToken is a short-lived single-use code delivered by email.
// At most one live token per (email, kind); issuing a new one replaces it.
type OutOfBandToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"index:idx_oob_email_kind,unique;not null"`
	Kind      TokenKind `gorm:"type:varchar(20);index:idx_oob_email_kind,unique;not null"`
	Token     string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

type WalletType string

const (
	WalletNaira  WalletType = "naira"
	WalletDollar WalletType = "dollar"
	WalletEuro   WalletType = "euro"
)

type Wallet struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	WalletType WalletType      `gorm:"type:varchar(20);default:naira"`
	Balance    decimal.Decimal `gorm:"type:numeric(10,2);default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type TransactionType string

const (
	TxAirtime      TransactionType = "airtime"
	TxData         TransactionType = "data"
	TxBill         TransactionType = "bill"
	TxCable        TransactionType = "cable"
	TxTopup        TransactionType = "topup"
	TxSubscription TransactionType = "subscription"
	TxExchange     TransactionType = "exchange"
)

type TransactionStatus string

const (
	TxPending TransactionStatus = "pending"
	TxSuccess TransactionStatus = "success"
	TxFailed  TransactionStatus = "failed"
)

type Transaction struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID         `gorm:"type:uuid;not null;index"`
	WalletID         *uuid.UUID        `gorm:"type:uuid"`
	TransactionType  TransactionType   `gorm:"type:varchar(20);not null"`
	Amount           decimal.Decimal   `gorm:"type:numeric(10,2);not null"`
	Status           TransactionStatus `gorm:"type:varchar(10);default:pending"`
	Reference        string            `gorm:"uniqueIndex;not null"`
	ProviderResponse []byte            `gorm:"type:jsonb"`
	CreatedAt        time.Time
}

type BillingCycle string

const (
	CycleMonthly  BillingCycle = "monthly"
	CycleAnnually BillingCycle = "annually"
)

type BillingCategory string

const (
	CategoryStandard BillingCategory = "standard"
	CategoryPremium  BillingCategory = "premium"
)

type Plan struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name            string          `gorm:"size:100;not null"`
	Description     string          `gorm:"type:text"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	NoOfProducts    int             `gorm:"not null"`
	BillingCycle    BillingCycle    `gorm:"type:varchar(20);default:monthly;not null"`
	BillingCategory BillingCategory `gorm:"type:varchar(20);default:standard;not null"`
	CreatedAt       time.Time
}

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionInactive SubscriptionStatus = "inactive"
	SubscriptionExpired  SubscriptionStatus = "expired"
)

// Subscription holds at most one row per user (unique user_id).
type Subscription struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID          `gorm:"type:uuid;uniqueIndex;not null"`
	PlanID    uuid.UUID          `gorm:"type:uuid;not null"`
	Status    SubscriptionStatus `gorm:"type:varchar(50);default:active"`
	StartDate time.Time          `gorm:"not null"`
	EndDate   time.Time          `gorm:"not null"`
	CreatedAt time.Time

	Plan *Plan `gorm:"foreignKey:PlanID"`
}

type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SenderID  *uuid.UUID `gorm:"type:uuid"`
	Title     string     `gorm:"not null"`
	Message   string     `gorm:"type:text;not null"`
	Link      *string
	Image     *string
	CreatedAt time.Time
}

type NotificationRecipient struct {
	NotificationID uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	IsRead         bool      `gorm:"default:false;not null"`

	Notification *Notification `gorm:"foreignKey:NotificationID"`
}

// Complaint keeps the transaction reference as free text because users file
// complaints about references that may no longer resolve to a row.
type Complaint struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	TransactionID *string   `gorm:"size:100"`
	Complaint     string    `gorm:"type:text;not null"`
	CreatedAt     time.Time
}

type ProductCategory string

const (
	CategoryElectronics    ProductCategory = "electronics"
	CategoryFashion        ProductCategory = "fashion"
	CategoryHomeAppliances ProductCategory = "home_appliances"
	CategoryBooks          ProductCategory = "books"
	CategoryBeauty         ProductCategory = "beauty"
	CategorySports         ProductCategory = "sports"
	CategoryGroceries      ProductCategory = "groceries"
	CategoryToys           ProductCategory = "toys"
	CategoryAutomotive     ProductCategory = "automotive"
	CategoryHealth         ProductCategory = "health"
	CategoryPetSupplies    ProductCategory = "pet_supplies"
	CategoryBabyProducts   ProductCategory = "baby_products"
)

type Product struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name         string          `gorm:"size:100;not null"`
	Description  string          `gorm:"type:text"`
	Price        decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Quantity     int             `gorm:"not null;default:0"`
	Image        *string
	Category     *ProductCategory `gorm:"type:varchar(30)"`
	Tags         []string         `gorm:"type:jsonb;serializer:json"`
	RedirectLink *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ProductReview struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	Rating    int       `gorm:"not null"`
	Comment   string    `gorm:"type:text"`
	CreatedAt time.Time
}

type Activity struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID    `gorm:"type:uuid;not null;index"`
	Description  string       `gorm:"not null"`
	ActivityType ActivityType `gorm:"type:varchar(10);default:create"`
	CreatedAt    time.Time
}

// TokenPair is the access+refresh pair returned by the session issuer.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	UserID       uuid.UUID
}
