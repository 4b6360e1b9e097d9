package domain

type InputType string

const (
	InputTypeText    InputType = "text"
	InputTypeEmail   InputType = "email"
	InputTypePhone   InputType = "phone"
	InputTypeURL     InputType = "url"
	InputTypeChannel InputType = "channel"
)

// QuickAction is a clickable recovery or shortcut affordance attached to a
// question or an error, mapping onto a canonical parameter name.
type QuickAction struct {
	Label string `json:"label"`
	Param string `json:"param,omitempty"`
	Value string `json:"value,omitempty"`
}

// Question asks the user for one missing input before execution. A question
// is removed from the queue once its canonical concept is present in the
// collected params, directly or via an alias; it is never re-created for an
// already-satisfied concept.
type Question struct {
	ID           string        `json:"id"`
	NodeID       string        `json:"node_id"`
	NodeName     string        `json:"node_name"`
	Param        string        `json:"param"`
	RawParam     string        `json:"raw_param"`
	Prompt       string        `json:"prompt"`
	QuickActions []QuickAction `json:"quick_actions,omitempty"`
	InputType    InputType     `json:"input_type"`
}

// CollectedParams maps a parameter key to a user-supplied value. Keys are
// either bare canonical names or "nodeID.param" for node-scoped overrides.
// The map grows monotonically; an existing value is never silently
// overwritten by a lower-priority source.
type CollectedParams map[string]string

// Clone returns a shallow copy. Reducer transitions operate on copies so a
// session value handed to a caller never mutates underneath it.
func (c CollectedParams) Clone() CollectedParams {
	out := make(CollectedParams, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
