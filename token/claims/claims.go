// Package claims extracts group and role claims from access tokens issued
// by the identity provider.
package claims

import (
	"sort"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// DecodeUnverified parses the token payload WITHOUT verifying its
// signature. The gateway only ever decodes tokens it just received from
// the provider over a trusted channel; signature trust is deliberately
// delegated to that channel. Any verified-decode path added later must
// not reuse this function.
func DecodeUnverified(rawToken string) (jwtlib.MapClaims, error) {
	token, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, err
	}

	mapClaims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, jwtlib.ErrTokenMalformed
	}
	return mapClaims, nil
}

// ExtractGroups returns the deduplicated union of the token's `groups`
// claim, `realm_access.roles`, and `resource_access[clientID].roles`.
// A malformed token yields an empty set rather than an error: group
// extraction must never fail the surrounding login flow.
func ExtractGroups(rawToken, clientID string) []string {
	mapClaims, err := DecodeUnverified(rawToken)
	if err != nil {
		log.Error().Err(err).Msg("failed to decode access token claims")
		return []string{}
	}

	seen := make(map[string]struct{})

	for _, g := range toStringSlice(mapClaims["groups"]) {
		seen[g] = struct{}{}
	}
	for _, g := range rolesFrom(mapClaims["realm_access"]) {
		seen[g] = struct{}{}
	}
	if resourceAccess, ok := mapClaims["resource_access"].(map[string]any); ok {
		for _, g := range rolesFrom(resourceAccess[clientID]) {
			seen[g] = struct{}{}
		}
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// rolesFrom pulls the "roles" list out of a realm_access or
// resource_access[client] claim block.
func rolesFrom(claim any) []string {
	block, ok := claim.(map[string]any)
	if !ok {
		return nil
	}
	return toStringSlice(block["roles"])
}

func toStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
