package model

import "errors"

// Validation errors for applicant, loan request and product inputs.
var (
	ErrInvalidAge            = errors.New("age must be between 18 and 120")
	ErrInvalidCreditScore    = errors.New("credit score must be between 300 and 900")
	ErrInvalidEmployment     = errors.New("employment years cannot be negative")
	ErrInvalidIncome         = errors.New("annual income cannot be negative")
	ErrInvalidExpenses       = errors.New("monthly expenses cannot be negative")
	ErrInvalidExistingLoans  = errors.New("existing loan amount cannot be negative")
	ErrAmountTooLarge        = errors.New("applicant amount exceeds the maximum allowed")
	ErrInvalidPrincipal      = errors.New("principal must be greater than zero")
	ErrPrincipalTooLarge     = errors.New("principal exceeds the maximum allowed")
	ErrInvalidTenure         = errors.New("tenure must be between 1 and 360 months")
	ErrInvalidInterestRate   = errors.New("annual interest rate must be between 0 and 1000 percent")
	ErrInvalidProduct        = errors.New("invalid loan product")
	ErrProductNotFound       = errors.New("loan product not found")
	ErrProductInactive       = errors.New("loan product is not active")
	ErrTenureOutsideProduct  = errors.New("tenure is outside the product's allowed range")
	ErrPrincipalAboveProduct = errors.New("principal exceeds the product's maximum")
)
