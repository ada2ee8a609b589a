// Package errs declares the error taxonomy from Every sentinel
// here is meant to be wrapped with context via fmt.Errorf("...: %w",...)
// and identified at call sites with errors.Is.
package errs

import "errors"

var (
	// ErrTransientRPC marks network/5xx/timeout failures from a chain
	// Provider. Callers retry with backoff; the Parser treats it as
	// "break inner loop; sleep".
	ErrTransientRPC = errors.New("transient rpc error")

	// ErrProtocolDecode marks an unexpected payload/byte structure.
	// Mappers never return this to their caller — they log at debug and
	// yield no Transaction — but decoders one layer down (e.g. protobuf
	// unmarshal) use it internally.
	ErrProtocolDecode = errors.New("protocol decode error")

	// ErrStorageConflict marks a unique-constraint violation on an
	// idempotent insert; the store recovers it locally.
	ErrStorageConflict = errors.New("storage conflict")

	// ErrStorageUnavailable marks a connection pool exhausted or database
	// down condition. It propagates to the consumer result and the broker
	// nacks with requeue.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrBroker marks a publish/consume failure at the message broker.
	ErrBroker = errors.New("broker error")

	// ErrConfigMissing marks a missing key in the config cacher. Fatal to
	// the invoking operation.
	ErrConfigMissing = errors.New("config missing")

	// ErrLocalizationMissing marks a locale with no localizer loaded.
	// Never fatal: callers fall back to the default locale.
	ErrLocalizationMissing = errors.New("localization missing")

	// ErrUnsupportedChain marks a lookup against a Chain the registry has
	// no Provider for.
	ErrUnsupportedChain = errors.New("unsupported chain")

	// ErrUnsupportedTransactionType marks a Transaction.Type the
	// notification composer has no template for (: AssetActivation).
	ErrUnsupportedTransactionType = errors.New("unsupported transaction type")

	// ErrPushTransportUnavailable marks a failed round-trip to the push
	// transport (gorush or otherwise). The pusher does not retry; the
	// transaction/price-alert remains stored and is not resent.
	ErrPushTransportUnavailable = errors.New("push transport unavailable")
)
