package goauthadapter

import (
	"context"
	"strconv"
	"strings"

	"github.com/goliatone/go-auth"

	"github.com/goliatone/go-langtheme/resource"
	"github.com/goliatone/go-langtheme/scope"
)

// ActorExtractor extracts an auth.ActorContext from context.
type ActorExtractor func(context.Context) (*auth.ActorContext, bool)

// Option customizes the scope resolver behavior.
type Option func(*ScopeResolver)

// ScopeResolver derives the member scope from go-auth actor context. Theme
// and language still come from the request context when present.
type ScopeResolver struct {
	extractor ActorExtractor
}

// NewScopeResolver builds a resolver using go-auth's actor context extractor.
func NewScopeResolver(opts ...Option) *ScopeResolver {
	resolver := &ScopeResolver{
		extractor: auth.ActorFromContext,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(resolver)
		}
	}
	if resolver.extractor == nil {
		resolver.extractor = auth.ActorFromContext
	}
	return resolver
}

// WithActorExtractor overrides the actor context extractor.
func WithActorExtractor(extractor ActorExtractor) Option {
	return func(resolver *ScopeResolver) {
		if resolver == nil {
			return
		}
		resolver.extractor = extractor
	}
}

// Resolve implements resource.ScopeResolver.
func (r *ScopeResolver) Resolve(ctx context.Context) (resource.Scope, error) {
	base := scope.FromContext(ctx)
	if r == nil || r.extractor == nil || ctx == nil {
		return base, nil
	}
	actor, ok := r.extractor(ctx)
	if !ok || actor == nil {
		return base, nil
	}
	if id := MemberIDFromActor(actor); id > 0 {
		base.MemberID = id
	}
	return base, nil
}

// MemberIDFromActor parses the numeric member id carried by the actor.
// Non-numeric ids map to guest (-1).
func MemberIDFromActor(actor *auth.ActorContext) int {
	if actor == nil {
		return -1
	}
	raw := strings.TrimSpace(actor.ActorID)
	if raw == "" {
		raw = strings.TrimSpace(actor.Subject)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return -1
	}
	return id
}

// ActorRefFromActor builds an ActorRef from an auth.ActorContext.
func ActorRefFromActor(actor *auth.ActorContext) resource.ActorRef {
	if actor == nil {
		return resource.ActorRef{}
	}
	id := actor.ActorID
	if id == "" {
		id = actor.Subject
	}
	return resource.ActorRef{
		ID:   id,
		Type: actor.Subject,
		Name: actor.Role,
	}
}

// ActorRefFromContext extracts an ActorRef from context.
func ActorRefFromContext(ctx context.Context) (resource.ActorRef, bool) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok || actor == nil {
		return resource.ActorRef{}, false
	}
	return ActorRefFromActor(actor), true
}

var _ resource.ScopeResolver = (*ScopeResolver)(nil)
