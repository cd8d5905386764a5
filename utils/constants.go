package utils

// Application constants
const (
	// Application name
	AppName = "NutriKart"

	// API version
	APIVersion = "v1"

	// CoinsPerCurrencyUnit is the fixed coin exchange rate: 10 coins = 1 rupee.
	CoinsPerCurrencyUnit = 10

	// FreeShippingThreshold is the subtotal above which shipping is free.
	FreeShippingThreshold = 299.0

	// StandardShippingFee applies to orders at or below the threshold.
	StandardShippingFee = 40.0

	// Default pagination limit
	DefaultPaginationLimit = 10

	// Maximum pagination limit
	MaxPaginationLimit = 100

	// Minimum password length
	MinPasswordLength = 8
)

// Error messages
const (
	ErrInvalidCredentials = "Invalid email or password"
	ErrUserBlocked        = "Your account has been blocked"
	ErrUnauthorized       = "Unauthorized access"
	ErrRecordNotFound     = "Record not found"
	ErrInternalServer     = "Internal server error"
)
