package seed

import (
	"time"

	"clearwater/api"
)

func date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// DefaultData is the reference content for a fresh deployment of the site.
func DefaultData() Data {
	return Data{
		Categories: []api.CreateCategoryRequest{
			{
				Name:        "Climate Resilience",
				Slug:        "climate-resilience",
				Description: "Research on how communities and ecosystems adapt to a changing climate.",
			},
			{
				Name:        "Freshwater Systems",
				Slug:        "freshwater-systems",
				Description: "Rivers, lakes, and groundwater: quality, governance, and restoration.",
			},
			{
				Name:        "Coastal Ecosystems",
				Slug:        "coastal-ecosystems",
				Description: "Estuaries, wetlands, and shoreline habitats under development pressure.",
			},
			{
				Name:        "Environmental Policy",
				Slug:        "environmental-policy",
				Description: "Evaluation of regulatory and market approaches to conservation.",
			},
		},
		Authors: []api.CreateAuthorRequest{
			{
				Name:        "Elena Vasquez",
				Email:       "evasquez@clearwater.org",
				Affiliation: "Clearwater Institute",
				Bio:         "Senior fellow leading the climate resilience program.",
			},
			{
				Name:        "Marcus Chen",
				Email:       "mchen@clearwater.org",
				Affiliation: "Clearwater Institute",
				Bio:         "Hydrologist focused on groundwater depletion in agricultural basins.",
			},
			{
				Name:        "Priya Raman",
				Email:       "praman@clearwater.org",
				Affiliation: "Clearwater Institute",
				Bio:         "Policy analyst covering water rights and interstate compacts.",
			},
			{
				Name:        "Daniel Okafor",
				Email:       "dokafor@clearwater.org",
				Affiliation: "Clearwater Institute",
				Bio:         "Coastal ecologist studying wetland migration under sea level rise.",
			},
		},
		ProgramAreas: []api.CreateProgramAreaRequest{
			{
				Name:        "Resilient Communities",
				Slug:        "resilient-communities",
				Description: "Working with municipalities on adaptation planning and flood preparedness.",
			},
			{
				Name:        "Healthy Watersheds",
				Slug:        "healthy-watersheds",
				Description: "Restoring river corridors and protecting drinking water sources.",
			},
		},
		Projects: []ProjectSeed{
			{
				AreaSlug: "resilient-communities",
				CreateProjectRequest: api.CreateProjectRequest{
					Name:        "Urban Heat Mapping",
					Slug:        "urban-heat-mapping",
					Description: "Community-led temperature sensing across three metro areas.",
					StartDate:   date(2023, time.May, 1),
				},
			},
			{
				AreaSlug: "resilient-communities",
				CreateProjectRequest: api.CreateProjectRequest{
					Name:        "Floodplain Buyout Study",
					Slug:        "floodplain-buyout-study",
					Description: "Tracking outcomes for households relocated out of repeated-loss floodplains.",
					StartDate:   date(2022, time.September, 15),
					EndDate:     date(2025, time.March, 31),
				},
			},
			{
				AreaSlug: "healthy-watersheds",
				CreateProjectRequest: api.CreateProjectRequest{
					Name:        "Headwaters Reforestation",
					Slug:        "headwaters-reforestation",
					Description: "Riparian planting partnerships with upstream landowners.",
					StartDate:   date(2024, time.April, 1),
				},
			},
		},
		Publications: []PublicationSeed{
			{
				Title:           "Municipal Adaptation Plans and Realized Flood Outcomes",
				Abstract:        "We compare adaptation plan adoption against insured flood losses across 212 municipalities.",
				Journal:         "Journal of Environmental Planning",
				PublicationYear: 2024,
				PublicationType: "journal-article",
				Doi:             "10.5281/cw.2024.0412",
				Citations:       18,
				IsFeatured:      true,
				CategorySlug:    "climate-resilience",
				AuthorEmails:    []string{"evasquez@clearwater.org", "praman@clearwater.org"},
			},
			{
				Title:           "Groundwater Depletion Trajectories in Snowmelt-Fed Basins",
				Abstract:        "Long-run well data shows accelerating drawdown where surface allocations are senior.",
				Journal:         "Water Resources Quarterly",
				PublicationYear: 2023,
				PublicationType: "journal-article",
				Doi:             "10.5281/cw.2023.0218",
				Citations:       42,
				CategorySlug:    "freshwater-systems",
				AuthorEmails:    []string{"mchen@clearwater.org"},
			},
			{
				Title:           "Wetland Migration Corridors Under Two Sea Level Scenarios",
				Abstract:        "Parcel-level modeling of where tidal wetlands can retreat by 2060, and what blocks them.",
				Journal:         "Coastal Science Review",
				PublicationYear: 2024,
				PublicationType: "journal-article",
				Doi:             "10.5281/cw.2024.0117",
				Citations:       9,
				IsFeatured:      true,
				CategorySlug:    "coastal-ecosystems",
				AuthorEmails:    []string{"dokafor@clearwater.org", "evasquez@clearwater.org", "mchen@clearwater.org"},
			},
			{
				Title:           "Pricing Stormwater: A Review of Utility Fee Structures",
				PublicationYear: 2022,
				PublicationType: "report",
				PdfUrl:          "https://cdn.clearwater.org/reports/stormwater-pricing-2022.pdf",
				CategorySlug:    "environmental-policy",
				AuthorEmails:    []string{"praman@clearwater.org"},
			},
		},
	}
}
