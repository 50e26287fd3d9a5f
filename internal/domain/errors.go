package domain

import "errors"

var (
	ErrConfigMissing      = errors.New("required configuration table missing or malformed")
	ErrAffiliateNotFound  = errors.New("affiliate not found")
	ErrSponsorNotFound    = errors.New("sponsor referral code not found")
	ErrAffiliateExists    = errors.New("affiliate already registered for user")
	ErrCommissionNotFound = errors.New("commission not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
)
