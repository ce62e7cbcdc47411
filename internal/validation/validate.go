package validation

import (
	"fmt"

	"github.com/the-project-b/ritagraph-sub004/internal/diagnostic"
	"github.com/the-project-b/ritagraph-sub004/internal/match"
	"github.com/the-project-b/ritagraph-sub004/internal/record"
	"github.com/the-project-b/ritagraph-sub004/internal/transform"
)

// Diagnostic codes reported by Validate.
const (
	CodeInvalidIgnorePath      = "invalid_ignore_path"
	CodeInvalidTransformerPath = "invalid_transformer_path"
	CodeUnknownTransformer     = "unknown_transformer"
	CodeInvalidUnorderedPath   = "invalid_unordered_path"
	CodeIgnoredTransformer     = "ignored_transformer_path"
	CodeEmptyOverride          = "empty_override"
	CodeInvalidOverride        = "invalid_override"
)

// Validate checks one configuration layer against reg. Scope names the layer
// in the reported diagnostics.
func Validate(cfg *Config, reg *transform.Registry, scope string) *diagnostic.Diagnostics {
	diags := &diagnostic.Diagnostics{}
	if cfg == nil {
		return diags
	}

	for _, p := range cfg.IgnorePaths {
		if _, err := record.ParsePath(p); err != nil {
			diags.AddError(CodeInvalidIgnorePath, err.Error(), scope, p)
		}
	}

	for _, p := range cfg.TransformerPaths() {
		key := cfg.Transformers[p]

		parsed, err := record.ParsePath(p)
		switch {
		case err != nil:
			diags.AddError(CodeInvalidTransformerPath, err.Error(), scope, p)
		case parsed.HasWildcard():
			diags.AddError(CodeInvalidTransformerPath, "transformer paths cannot contain wildcards", scope, p)
		}

		if !reg.Has(key) {
			diags.AddError(CodeUnknownTransformer,
				fmt.Sprintf("unknown transformer %q", key), scope, p,
				match.Suggest(key, reg.Keys())...)
		}

		if ShouldIgnorePath(p, *cfg) {
			diags.AddWarning(CodeIgnoredTransformer,
				fmt.Sprintf("transformer %q never runs because the path is ignored", key), scope, p)
		}
	}

	if cfg.Normalization != nil {
		for _, p := range cfg.Normalization.UnorderedArrays {
			if _, err := record.ParsePath(p); err != nil {
				diags.AddError(CodeInvalidUnorderedPath, err.Error(), scope, p)
			}
		}
	}

	return diags
}

// ValidateRecords checks the "_validation" override of every expected record.
func ValidateRecords(records []record.Record, reg *transform.Registry) *diagnostic.Diagnostics {
	diags := &diagnostic.Diagnostics{}

	for i, rec := range records {
		scope := fmt.Sprintf("record[%d]", i)

		override, err := RecordOverride(rec)
		if err != nil {
			diags.AddError(CodeInvalidOverride, err.Error(), scope, record.OverrideKey)
			continue
		}

		if override == nil {
			continue
		}

		if override.IsZero() {
			diags.AddInfo(CodeEmptyOverride, "override provides no facet", scope, record.OverrideKey)
			continue
		}

		diags.Merge(*Validate(override, reg, scope))
	}

	return diags
}
