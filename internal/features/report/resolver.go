package report

import (
	"context"
	"fmt"

	"go-reports/internal/config"
	"go-reports/internal/features/campaign"
	"go-reports/internal/features/reporttemplate"
)

// FieldResolver materializes a report's raw params into the domain objects
// handed to the template script.
//
// Resolution is deliberately sequential: fields resolve in catalog order and
// within a field the referenced ids resolve one lookup at a time. Parameter
// counts are small, and sequencing keeps memory bounded and makes the first
// failing field the one that is reported.
type FieldResolver struct {
	Campaigns campaign.CampaignRepository

	// StrictSingle turns an empty resolution of a min==max==1 field into a
	// lookup error instead of a nil input.
	StrictSingle bool
}

func NewFieldResolver(campaigns campaign.CampaignRepository, cfg *config.Config) *FieldResolver {
	return &FieldResolver{
		Campaigns:    campaigns,
		StrictSingle: cfg.StrictSingleFields,
	}
}

// Resolve converts params into resolved inputs per the field specs. The first
// failure aborts the whole resolution; no later field is touched.
func (r *FieldResolver) Resolve(ctx context.Context, specs []reporttemplate.UserFieldSpec, params reporttemplate.ParamsObject) (ResolvedInputs, error) {
	resolved := make(ResolvedInputs, len(specs))

	for _, spec := range specs {
		switch spec.Type {
		case reporttemplate.FieldTypeCampaign:
			values, err := r.resolveCampaigns(ctx, params[spec.ID])
			if err != nil {
				return nil, wrapRunError(KindLookup, fmt.Sprintf("could not resolve field %q", spec.ID), err)
			}

			if !spec.IsMulti() {
				if len(values) == 0 {
					if r.StrictSingle {
						return nil, newRunError(KindLookup, fmt.Sprintf("field %q requires exactly one value but none was selected", spec.ID))
					}
					resolved[spec.ID] = nil
				} else {
					resolved[spec.ID] = values[0]
				}
			} else {
				resolved[spec.ID] = values
			}

		default:
			return nil, newRunError(KindUnknownFieldType, fmt.Sprintf("unknown user field type %q", spec.Type))
		}
	}

	return resolved, nil
}

// resolveCampaigns fetches every id in listed order, one at a time. Lookup
// N+1 does not start until lookup N has returned.
func (r *FieldResolver) resolveCampaigns(ctx context.Context, ids []int64) ([]interface{}, error) {
	values := make([]interface{}, 0, len(ids))

	for _, id := range ids {
		c, err := r.Campaigns.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		values = append(values, c.ToInputs())
	}

	return values, nil
}
