package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// InvalidInstructionError represents an instruction with an unknown
	// order type or side.
	InvalidInstructionError ErrorCode = "invalid_instruction"
	// InvalidQuantityError represents an instruction with a zero or
	// negative quantity.
	InvalidQuantityError ErrorCode = "invalid_quantity"
	// InvalidPriceError represents an instruction with a non-positive price.
	InvalidPriceError ErrorCode = "invalid_price"
	// DuplicateOrderError represents an instruction reusing a live order id.
	DuplicateOrderError ErrorCode = "duplicate_order"

	// FeedOpenError represents a failure opening the instruction feed.
	FeedOpenError ErrorCode = "feed_open_error"
	// FeedParseError represents a malformed instruction line or payload.
	FeedParseError ErrorCode = "feed_parse_error"
	// FeedReadError represents a failure reading from the instruction feed.
	FeedReadError ErrorCode = "feed_read_error"

	// KafkaReadError represents a failure reading from the order topic.
	KafkaReadError ErrorCode = "kafka_read_error"
	// KafkaPublishError represents a failure publishing a trade event.
	KafkaPublishError ErrorCode = "kafka_publish_error"
)
