package shared

// Background task types and the queues they run on.
const (
	TypeExpirePromotions = "promotion:expire"

	QueuePromotion = "default"
)

// ExpirePromotionsPayload is the (empty) payload for the periodic
// promotion expiry sweep.
type ExpirePromotionsPayload struct{}
