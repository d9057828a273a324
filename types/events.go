package types

// Lifecycle event names emitted through the pack tree by registration and
// composition methods.
const (
	EventPackLoaded              = "pack:loaded"
	EventPackUnloaded            = "pack:unloaded"
	EventPackDestroyed           = "pack:destroyed"
	EventInspectorRegistered     = "inspector:registered"
	EventInspectorUnregistered   = "inspector:unregistered"
	EventLocaleLoaded            = "locale:loaded"
	EventLocaleUnloaded          = "locale:unloaded"
	EventInteractionRegistered   = "interaction:registered"
	EventInteractionUnregistered = "interaction:unregistered"
)

// Root event suffixes. The full event name is "<brand>:<suffix>" where brand
// is a configuration constant (BrandEvent builds it), so embedders under a
// different brand keep a stable event surface.
const (
	EventReady                   = "ready"
	EventEventHandlerError       = "eventHandlerError"
	EventInteractionHandlerError = "interactionHandlerError"
	EventAutocompleteError       = "autocompleteError"
	EventPublishSuccess          = "publishSuccess"
	EventPublishError            = "publishError"
)

// EventInteractionCreate is the low-level platform event name that carries
// inbound interactions; the root forwards it to interaction dispatch.
const EventInteractionCreate = "interactionCreate"

// BrandEvent builds a brand-prefixed root event name.
func BrandEvent(brand, suffix string) string {
	return brand + ":" + suffix
}

// LifecyclePayload is the payload of pack/inspector/locale/interaction
// lifecycle events.
type LifecyclePayload struct {
	// PackID is the container the item was registered on.
	PackID string
	// ItemID identifies the item (pack id, inspector id, fragment id,
	// interaction id).
	ItemID string
}

// HandlerErrorPayload is the payload of the brand-prefixed error events.
type HandlerErrorPayload struct {
	ClientID string
	Event    string
	Kind     InteractionKind
	Key      string
	Err      error
}

// PublishPayload is the payload of publish success/error events.
type PublishPayload struct {
	ClientID string
	GuildID  string
	Commands int
	Err      error
}
