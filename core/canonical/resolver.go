// Package canonical collapses groups of near-duplicate surface forms into one
// canonical registry entry with the help of an oracle.
package canonical

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/siherrmann/lexent/core/oracle"
	"github.com/siherrmann/lexent/core/registry"
	"github.com/siherrmann/lexent/core/similarity"
	"github.com/siherrmann/lexent/helper"
	"github.com/siherrmann/lexent/model"
)

// Resolution describes the outcome of resolving one group.
type Resolution struct {
	Group []string
	// Names are the distinct names the group resolved to. On failure they
	// are the unchanged group members.
	Names  []string
	Merged bool
}

// Canonical returns the surviving name of a merged group.
func (r *Resolution) Canonical() string {
	if !r.Merged || len(r.Names) == 0 {
		return ""
	}
	return r.Names[0]
}

// Resolver asks an oracle to adjudicate similarity groups and merges the
// registry records of groups resolved to a single name.
type Resolver struct {
	Oracle  oracle.Oracle
	Options oracle.Options
	// Timeout bounds each oracle call. Zero disables the limit.
	Timeout time.Duration
	Grouper *similarity.Grouper
	logger  *slog.Logger
}

// NewResolver creates a resolver with temperature zero decoding and the
// default grouper.
func NewResolver(o oracle.Oracle, modelName string, timeout time.Duration, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		Oracle:  o,
		Options: oracle.Options{Model: modelName, Temperature: 0},
		Timeout: timeout,
		Grouper: similarity.NewGrouper(),
		logger:  logger,
	}
}

// Resolve adjudicates one group against reg. Groups with fewer than two
// members are left alone. The registry is only changed when the oracle
// answers with exactly one name: every member is then merged into that name.
// Errors wrap model.ErrOracleFailure and leave the registry untouched.
func (r *Resolver) Resolve(ctx context.Context, group []string, reg *registry.Registry) (*Resolution, error) {
	res := &Resolution{Group: group, Names: group}
	if len(group) < 2 {
		return res, nil
	}

	callCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	answer, err := r.Oracle.Adjudicate(callCtx, Prompt(reg.Label, group), r.Options)
	if err != nil {
		return res, helper.NewError("adjudicate group", fmt.Errorf("%w: %w", model.ErrOracleFailure, err))
	}

	names := ParseNames(answer)
	if len(names) == 0 {
		return res, helper.NewError("adjudicate group", fmt.Errorf("%w: empty answer", model.ErrOracleFailure))
	}
	res.Names = names
	if len(names) > 1 {
		return res, nil
	}

	for _, member := range group {
		reg.Merge(names[0], member)
	}
	res.Merged = true
	return res, nil
}

// Canonicalize sorts reg, groups its surface forms and resolves every group.
// Failing groups are logged and stay unmerged. It returns the sorted distinct
// names across all groups, or the context error if ctx ends first.
func (r *Resolver) Canonicalize(ctx context.Context, reg *registry.Registry) ([]string, error) {
	reg.Sort()
	groups := r.Grouper.Group(reg.Keys())

	seen := map[string]bool{}
	names := []string{}
	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return nil, helper.NewError("canonicalize", err)
		}

		res, err := r.Resolve(ctx, group, reg)
		if err != nil {
			r.logger.Warn("group left unresolved", "label", reg.Label, "group", group, "error", err)
		} else if res.Merged {
			r.logger.Debug("group merged", "label", reg.Label, "group", group, "canonical", res.Canonical())
		}

		for _, name := range res.Names {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	reg.Sort()
	sort.Strings(names)
	return names, nil
}
