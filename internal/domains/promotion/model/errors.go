package model

import "errors"

// Construction-time validation errors. Promotions that fail these never
// reach the rule engine; evaluation itself has no error outcomes.
var (
	ErrBlankName                 = errors.New("promotion name cannot be blank")
	ErrNegativePriority          = errors.New("promotion priority must be >= 0")
	ErrInvalidStatus             = errors.New("invalid promotion status")
	ErrMissingStrategy           = errors.New("promotion requires a strategy")
	ErrMissingCriteria           = errors.New("promotion requires at least one activation criterion")
	ErrScopeMissingReference     = errors.New("scope item requires a reference id")
	ErrInvalidScopeItem          = errors.New("scope item has an invalid kind or role")
	ErrInvalidDiscountMode       = errors.New("discount mode must be PERCENTAGE or FIXED_AMOUNT")
	ErrNonPositiveDiscountValue  = errors.New("discount value must be > 0")
	ErrPercentageOutOfRange      = errors.New("percentage must be in (0, 100]")
	ErrInvalidQuantityRatio      = errors.New("fixed quantity requires buy > pay >= 1")
	ErrInvalidTriggerQuantity    = errors.New("combo requires min trigger quantity >= 1")
	ErrInvalidActivationQuantity = errors.New("fixed price per quantity requires activation quantity >= 2")
	ErrNonPositivePackPrice      = errors.New("pack price must be > 0")
	ErrMissingDateRange          = errors.New("temporal criterion requires date_from and date_to")
	ErrInvertedDateRange         = errors.New("date_from must not be after date_to")
	ErrInvalidWeekday            = errors.New("invalid day of week")
	ErrPartialTimeWindow         = errors.New("time_from and time_to must be set together")
	ErrInvalidTimeOfDay          = errors.New("time of day out of range")
	ErrInvertedTimeWindow        = errors.New("time_from must not be after time_to")
	ErrNonPositiveThreshold      = errors.New("minimum amount threshold must be > 0")
	ErrEmptyRequiredProducts     = errors.New("content criterion requires a non-empty product set")
)

// Catalog management errors.
var (
	ErrPromotionNotFound = errors.New("promotion not found")
	ErrDuplicateName     = errors.New("a promotion with this name already exists")
	ErrUnknownStrategy   = errors.New("unknown strategy type")
	ErrUnknownCriterion  = errors.New("unknown criterion type")
)

// PromotionError wraps a failure with a stable code the HTTP layer maps to
// a response.
type PromotionError struct {
	Code    string
	Message string
	Err     error
}

func (e *PromotionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *PromotionError) Unwrap() error {
	return e.Err
}

func NewPromotionError(code, message string, err error) *PromotionError {
	return &PromotionError{Code: code, Message: message, Err: err}
}

// Error codes used by the promotion domain.
const (
	ErrCodeInvalidPromotion = "PRM001"
	ErrCodeNotFound         = "PRM002"
	ErrCodeDuplicateName    = "PRM003"
	ErrCodeStorageFailure   = "PRM004"
)
