package kindcfg

import "github.com/hanbitworks/backoffice/pkg/fieldrule"

// Kind keys. These double as the casbin authorization objects and the
// draft-store namespace.
const (
	KindEducation    = "education"
	KindSecEducation = "seceducation"
	KindRegulation   = "regulation"
	KindSWAsset      = "swasset"
)

// Default is the built-in registry covering the four record kinds.
func Default() *Registry {
	r, err := build([]Kind{
		{
			Key:             KindEducation,
			CodePrefix:      "IT-EDU",
			CodeField:       "code",
			DateField:       "execution_date",
			Fields:          []string{"code", "name", "execution_date", "location", "education_type", "instructor", "team_name", "status"},
			RequiredRule:    fieldrule.RequiredExpr("name", "execution_date", "location", "education_type"),
			RequiredMessage: "name, execution date, location and type are required",
			Collections: []Collection{
				{Name: "curriculum", PageSize: 5, Ordered: true},
				{Name: "attendees", PageSize: 9},
				{Name: "comments", PageSize: 5, ReverseInsert: true},
			},
		},
		{
			Key:             KindSecEducation,
			CodePrefix:      "IT-SE",
			CodeField:       "code",
			DateField:       "execution_date",
			Fields:          []string{"code", "name", "execution_date", "location", "education_type", "target_audience", "status"},
			RequiredRule:    fieldrule.RequiredExpr("name", "execution_date", "location", "education_type"),
			RequiredMessage: "name, execution date, location and type are required",
			Collections: []Collection{
				{Name: "attendees", PageSize: 9},
				{Name: "comments", PageSize: 5, ReverseInsert: true},
			},
		},
		{
			Key:             KindRegulation,
			CodePrefix:      "IT-RG",
			CodeField:       "code",
			DateField:       "created_date",
			Fields:          []string{"code", "title", "document_type", "assignee", "team_name", "due_date", "created_date", "status"},
			RequiredRule:    fieldrule.RequiredExpr("title", "document_type", "assignee"),
			RequiredMessage: "title, document type and assignee are required",
			Collections: []Collection{
				{Name: "comments", PageSize: 5, ReverseInsert: true},
			},
		},
		{
			Key:             KindSWAsset,
			CodePrefix:      "IT-SW",
			CodeField:       "code",
			DateField:       "registered_date",
			Fields:          []string{"code", "name", "category", "solution_provider", "license_type", "seats", "registered_date", "status"},
			RequiredRule:    fieldrule.RequiredExpr("name", "category", "solution_provider", "license_type"),
			RequiredMessage: "name, category, solution provider and license type are required",
			Collections: []Collection{
				{Name: "purchases", PageSize: 5},
				{Name: "comments", PageSize: 5, ReverseInsert: true},
			},
		},
	})
	if err != nil {
		panic(err)
	}
	return r
}
