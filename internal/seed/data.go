package seed

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/swapsafe/swapsafe-backend/pkg/enums"
)

// DemoAccount is a login advertised on the sign-in screen.
type DemoAccount struct {
	Email    string
	Password string
	FullName string
	UserType enums.UserType
	Trust    int
	Eco      int
}

// DemoAccounts are created with usable passwords.
var DemoAccounts = []DemoAccount{
	{Email: "buyer@swapsafe.com", Password: "buyer123", FullName: "Demo Buyer", UserType: enums.UserTypeBuyer, Trust: 87, Eco: 1250},
	{Email: "seller@swapsafe.com", Password: "seller123", FullName: "Demo Seller", UserType: enums.UserTypeSeller, Trust: 92, Eco: 860},
	{Email: "admin@swapsafe.com", Password: "admin123", FullName: "SwapSafe Admin", UserType: enums.UserTypeAdmin, Trust: 100},
}

type counterparty struct {
	key         string
	name        string
	rating      string
	reviewCount int
	trust       int
	verified    bool
}

var counterparties = []counterparty{
	{key: "sarah", name: "Sarah Johnson", rating: "4.8", reviewCount: 127, trust: 96, verified: true},
	{key: "michael", name: "Michael Chen", rating: "4.9", reviewCount: 89, trust: 92, verified: true},
	{key: "alex", name: "Alex Rodriguez", rating: "3.2", reviewCount: 23, trust: 61},
	{key: "emma", name: "Emma Wilson", rating: "4.6", reviewCount: 156, trust: 88, verified: true},
	{key: "david", name: "David Kim", rating: "4.9", reviewCount: 203, trust: 94, verified: true},
}

type listing struct {
	seller        string
	title         string
	category      enums.ProductCategory
	condition     enums.ProductCondition
	price         int64
	originalPrice int64
	ecoFriendly   bool
	ecoScore      int
	lat, lng      float64
	location      string
	views         int
	favorites     int
	risk          enums.RiskLevel
	age           time.Duration
}

var listings = []listing{
	{seller: "sarah", title: "iPhone 14 Pro Max - 256GB Space Black", category: enums.ProductCategoryElectronics, condition: enums.ProductConditionLikeNew, price: 899, originalPrice: 1099, ecoFriendly: true, ecoScore: 80, lat: 37.7749, lng: -122.4194, location: "San Francisco, CA", views: 156, favorites: 23, risk: enums.RiskLevelLow, age: 48 * time.Hour},
	{seller: "michael", title: "MacBook Air M2 - 13 inch, 8GB RAM, 256GB SSD", category: enums.ProductCategoryElectronics, condition: enums.ProductConditionNew, price: 1099, ecoScore: 40, lat: 37.7849, lng: -122.4094, location: "San Francisco, CA", views: 89, favorites: 12, risk: enums.RiskLevelLow, age: 24 * time.Hour},
	{seller: "emma", title: "Sony WH-1000XM4 Wireless Noise Canceling Headphones", category: enums.ProductCategoryElectronics, condition: enums.ProductConditionGood, price: 199, originalPrice: 349, ecoFriendly: true, ecoScore: 75, lat: 37.8044, lng: -122.2712, location: "Oakland, CA", views: 234, favorites: 45, risk: enums.RiskLevelLow, age: 72 * time.Hour},
	{seller: "alex", title: "Nintendo Switch OLED Console - White", category: enums.ProductCategoryToys, condition: enums.ProductConditionLikeNew, price: 299, ecoScore: 30, lat: 37.7599, lng: -122.4148, location: "San Francisco, CA", views: 178, favorites: 34, risk: enums.RiskLevelMedium, age: 96 * time.Hour},
	{seller: "david", title: "Canon EOS R5 Mirrorless Camera Body", category: enums.ProductCategoryElectronics, condition: enums.ProductConditionGood, price: 2899, originalPrice: 3899, ecoFriendly: true, ecoScore: 70, lat: 37.5485, lng: -121.9886, location: "Fremont, CA", views: 67, favorites: 8, risk: enums.RiskLevelLow, age: 168 * time.Hour},
	{seller: "seller", title: "Tesla Model 3 Performance Wheels (Set of 4)", category: enums.ProductCategoryAutomotive, condition: enums.ProductConditionFair, price: 1200, originalPrice: 2500, ecoFriendly: true, ecoScore: 90, lat: 37.6879, lng: -122.4702, location: "Daly City, CA", views: 145, favorites: 19, risk: enums.RiskLevelLow, age: 120 * time.Hour},
}

type order struct {
	id             string
	product        string
	amount         string
	fee            string
	status         enums.TransactionStatus
	escrow         enums.EscrowStatus
	branchedFrom   enums.TransactionStatus
	buyerIsViewer  bool
	counterparty   string
	risk           enums.RiskLevel
	paymentMethod  string
	trackingNumber string
	notes          string
	createdAt      time.Time
}

var orders = []order{
	{id: "SW-2024-001", product: "iPhone 12 Pro - 128GB", amount: "650.00", fee: "19.50", status: enums.TransactionStatusDelivered, escrow: enums.EscrowStatusSecured, buyerIsViewer: true, counterparty: "sarah", risk: enums.RiskLevelLow, paymentMethod: "Credit Card", trackingNumber: "TRK123456789", notes: "Item in excellent condition as described", createdAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
	{id: "SW-2024-002", product: "MacBook Air M2", amount: "1200.00", fee: "36.00", status: enums.TransactionStatusShipped, escrow: enums.EscrowStatusSecured, counterparty: "michael", risk: enums.RiskLevelLow, paymentMethod: "Bank Transfer", trackingNumber: "TRK987654321", createdAt: time.Date(2024, 1, 14, 14, 20, 0, 0, time.UTC)},
	{id: "SW-2024-003", product: "Sony WH-1000XM4 Headphones", amount: "280.00", fee: "8.40", status: enums.TransactionStatusDisputed, escrow: enums.EscrowStatusHeld, branchedFrom: enums.TransactionStatusShipped, buyerIsViewer: true, counterparty: "alex", risk: enums.RiskLevelMedium, paymentMethod: "PayPal", notes: "Dispute opened due to item condition mismatch", createdAt: time.Date(2024, 1, 12, 9, 15, 0, 0, time.UTC)},
	{id: "SW-2024-004", product: "Nintendo Switch OLED", amount: "320.00", fee: "9.60", status: enums.TransactionStatusPending, escrow: enums.EscrowStatusProcessing, counterparty: "emma", risk: enums.RiskLevelLow, paymentMethod: "Credit Card", createdAt: time.Date(2024, 1, 16, 16, 45, 0, 0, time.UTC)},
	{id: "SW-2024-005", product: `iPad Pro 11" 2022`, amount: "850.00", fee: "25.50", status: enums.TransactionStatusCompleted, escrow: enums.EscrowStatusReleased, buyerIsViewer: true, counterparty: "david", risk: enums.RiskLevelLow, paymentMethod: "Apple Pay", createdAt: time.Date(2024, 1, 10, 11, 30, 0, 0, time.UTC)},
}

type alert struct {
	kind      enums.NotificationType
	title     string
	message   string
	priority  enums.NotificationPriority
	actionURL string
	read      bool
}

var alerts = []alert{
	{kind: enums.NotificationTypeSecurity, title: "Security Alert", message: "New login detected from Chrome on Windows", priority: enums.NotificationPriorityHigh, actionURL: "/settings", read: true},
	{kind: enums.NotificationTypeEscrow, title: "Escrow Released", message: "Funds have been released for order #SW-2024-001", priority: enums.NotificationPriorityHigh, actionURL: "/transaction-management"},
	{kind: enums.NotificationTypeTransaction, title: "Payment Received", message: "You received $125.00 for iPhone 12 Pro", priority: enums.NotificationPriorityNormal, actionURL: "/transaction-management"},
}

func mustDecimal(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}
