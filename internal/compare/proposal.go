package compare

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/the-project-b/ritagraph-sub004/internal/canon"
	"github.com/the-project-b/ritagraph-sub004/internal/record"
)

// ChangeType distinguishes edits from creations.
type ChangeType string

const (
	ChangeTypeChange   ChangeType = "change"
	ChangeTypeCreation ChangeType = "creation"
)

// IsValid returns true if the change type is a recognized value.
func (c ChangeType) IsValid() bool {
	return c == ChangeTypeChange || c == ChangeTypeCreation
}

// Proposal is the typed view of one proposal record.
type Proposal struct {
	ChangeType                ChangeType     `mapstructure:"changeType"`
	ChangedField              string         `mapstructure:"changedField"`
	NewValue                  any            `mapstructure:"newValue"`
	MutationQueryPropertyPath string         `mapstructure:"mutationQueryPropertyPath"`
	RelatedUserID             string         `mapstructure:"relatedUserId"`
	MutationVariables         map[string]any `mapstructure:"mutationVariables"`
}

// ErrUnknownChangeType is returned for change types other than change and
// creation.
var ErrUnknownChangeType = errors.New("unknown change type")

// DecodeProposal decodes rec into a Proposal. Unknown fields are allowed;
// numeric user ids are accepted as strings.
func DecodeProposal(rec record.Record) (Proposal, error) {
	var p Proposal

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Proposal{}, fmt.Errorf("failed to build proposal decoder: %w", err)
	}

	if err := dec.Decode(map[string]any(rec.Content())); err != nil {
		return Proposal{}, fmt.Errorf("failed to decode proposal: %w", err)
	}

	if p.ChangeType != "" && !p.ChangeType.IsValid() {
		return Proposal{}, fmt.Errorf("%w: %q", ErrUnknownChangeType, p.ChangeType)
	}

	return p, nil
}

// Summary renders a one-line description such as
// `change salary = 5000 (user u-1)`.
func (p Proposal) Summary() string {
	var parts []string

	if p.ChangeType != "" {
		parts = append(parts, string(p.ChangeType))
	}

	if p.ChangedField != "" {
		parts = append(parts, p.ChangedField)
	}

	if p.NewValue != nil {
		parts = append(parts, "=", canon.ToCanonicalText(p.NewValue))
	}

	if p.RelatedUserID != "" {
		parts = append(parts, "(user "+p.RelatedUserID+")")
	}

	return strings.Join(parts, " ")
}
