package services

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/pairforge/pairforge-backend/internal/matching"
	"github.com/pairforge/pairforge-backend/internal/types"
)

func decodeStringSlice(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func encodeStringSlice(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}

func profileSnapshot(p *types.Profile) matching.ProfileSnapshot {
	return matching.ProfileSnapshot{
		ProductType:  p.ProductType,
		IndustryTags: decodeStringSlice(p.IndustryTags),
		AudienceSize: p.AudienceSize,
		WhatIOffer:   decodeStringSlice(p.WhatIOffer),
		WhatIWant:    decodeStringSlice(p.WhatIWant),
	}
}

func trustSnapshot(u *types.User) matching.TrustSnapshot {
	return matching.TrustSnapshot{
		CreatedAt:     &u.CreatedAt,
		LastActiveAt:  u.LastActiveAt,
		IsVerified:    u.IsVerified,
		ReferralCount: u.ReferralCount,
	}
}
