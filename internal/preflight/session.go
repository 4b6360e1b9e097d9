// Package preflight walks a workflow before execution and computes the full
// set of still-missing inputs as a deduplicated question queue.
package preflight

import (
	"github.com/skybridge-ai/flowkit/internal/domain"
	"github.com/skybridge-ai/flowkit/internal/params"
	"github.com/skybridge-ai/flowkit/internal/ports"
)

// Session is the single source of truth for resolution state: collected
// params, the open question queue, and cached discovery results. Transitions
// return a new value; callers holding an old Session never observe later
// mutations. The queue's emptiness is the readiness signal; there is no
// separate answered-ids bookkeeping to drift out of sync.
type Session struct {
	WorkflowID string
	Collected  domain.CollectedParams
	Questions  []domain.Question
	Discovery  map[string]*ports.DiscoveryResult
	DryRunDone bool
}

func NewSession(workflowID string) Session {
	return Session{
		WorkflowID: workflowID,
		Collected:  domain.CollectedParams{},
		Discovery:  map[string]*ports.DiscoveryResult{},
	}
}

func (s Session) clone() Session {
	out := s
	out.Collected = s.Collected.Clone()
	out.Questions = append([]domain.Question(nil), s.Questions...)
	out.Discovery = make(map[string]*ports.DiscoveryResult, len(s.Discovery))
	for k, v := range s.Discovery {
		out.Discovery[k] = v
	}
	return out
}

// WithCollected records a parameter value. Existing non-empty values win
// over the incoming one unless the existing value is a placeholder, the
// monotonic-growth rule for the collected store.
func (s Session) WithCollected(key, value string) Session {
	out := s.clone()
	out.setCollected(key, value)
	return out
}

func (s *Session) setCollected(key, value string) {
	if cur, ok := s.Collected[key]; ok && cur != "" && !isReplaceable(cur) {
		return
	}
	s.Collected[key] = value
}

func isReplaceable(value string) bool {
	return value == "" || params.IsPlaceholder(value)
}

// WithDiscovery caches a discovery result for a node.
func (s Session) WithDiscovery(nodeID string, result *ports.DiscoveryResult) Session {
	out := s.clone()
	out.Discovery[nodeID] = result
	return out
}

// WithQuestions appends questions that are not already queued (by ID) and
// whose concept is not yet satisfied. Reopening the queue resets the
// dry-run marker.
func (s Session) WithQuestions(aliases *params.AliasIndex, qs ...domain.Question) Session {
	out := s.clone()
	for _, q := range qs {
		if out.hasQuestion(q.ID) {
			continue
		}
		if aliases.Satisfied(q.Param, q.NodeID, out.Collected) {
			continue
		}
		out.Questions = append(out.Questions, q)
		out.DryRunDone = false
	}
	return out
}

func (s Session) hasQuestion(id string) bool {
	for _, q := range s.Questions {
		if q.ID == id {
			return true
		}
	}
	return false
}

// CurrentQuestion is the head of the queue: questions are presented one at
// a time in stable order.
func (s Session) CurrentQuestion() (domain.Question, bool) {
	if len(s.Questions) == 0 {
		return domain.Question{}, false
	}
	return s.Questions[0], true
}

// QuestionByID finds an open question.
func (s Session) QuestionByID(id string) (domain.Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return domain.Question{}, false
}

// Answer folds a user answer into the collected store and removes the
// question along with every alias-equivalent question it satisfies.
// Universal concepts store under the bare canonical name and satisfy the
// whole workflow; node-scoped concepts store under "nodeID.param".
func (s Session) Answer(aliases *params.AliasIndex, questionID, value string, extract func(param, value string) string) (Session, error) {
	q, ok := s.QuestionByID(questionID)
	if !ok {
		return s, domain.ErrQuestionClosed
	}

	out := s.clone()

	stored := value
	if extract != nil {
		stored = extract(q.Param, value)
	}

	key := q.Param
	if !aliases.Universal(q.Param) && q.NodeID != "" {
		key = q.NodeID + "." + q.Param
	}
	out.setCollected(key, stored)

	kept := out.Questions[:0]
	for _, open := range out.Questions {
		if open.ID == questionID {
			continue
		}
		if !aliases.Satisfied(open.Param, open.NodeID, out.Collected) {
			kept = append(kept, open)
		}
	}
	out.Questions = kept
	return out, nil
}

// WithoutSatisfied drops every question whose concept the collected store
// now covers, whichever path the value arrived by.
func (s Session) WithoutSatisfied(aliases *params.AliasIndex) Session {
	out := s.clone()
	kept := out.Questions[:0]
	for _, q := range out.Questions {
		if !aliases.Satisfied(q.Param, q.NodeID, out.Collected) {
			kept = append(kept, q)
		}
	}
	out.Questions = kept
	return out
}
