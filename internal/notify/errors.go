package notify

import "errors"

// ErrAllDeliveriesFailed is returned when a card reached none of the
// configured destinations.
var ErrAllDeliveriesFailed = errors.New("notify: all deliveries failed")
