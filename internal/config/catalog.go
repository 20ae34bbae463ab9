package config

// Objective categories recognized by the planner.
const (
	CategoryAwareness  = "awareness"
	CategoryEngagement = "engagement"
	CategoryTraffic    = "traffic"
	CategoryLeads      = "leads"
)

// KPIDefinition describes one KPI tracked for a platform/objective pair.
type KPIDefinition struct {
	Platform  string
	Objective string
	Var       string
	Label     string
}

// KPICatalog is the static table of KPI variables tracked per platform and
// objective. Configurations may reference KPIs outside this table; those keep
// their raw variable name as the display label.
var KPICatalog = []KPIDefinition{
	{Platform: "fb", Objective: "aw", Var: "FB_AW_REACH", Label: "Reach"},
	{Platform: "fb", Objective: "aw", Var: "FB_AW_IMPRESSION", Label: "Impression"},
	{Platform: "fb", Objective: "en", Var: "FB_EN_ENGAGEMENT", Label: "Engagement"},
	{Platform: "fb", Objective: "wt", Var: "FB_WT_CLICKS", Label: "Link Clicks"},
	{Platform: "fb", Objective: "lg", Var: "FB_LG_LEADS", Label: "Leads"},

	{Platform: "ig", Objective: "aw", Var: "IG_AW_REACH", Label: "Reach"},
	{Platform: "ig", Objective: "en", Var: "IG_EN_ENGRATERATE", Label: "Engagement Rate"},
	{Platform: "ig", Objective: "wt", Var: "IG_WT_CLICKS", Label: "Link Clicks"},
	{Platform: "ig", Objective: "lg", Var: "IG_LG_LEADS", Label: "Leads"},

	{Platform: "li", Objective: "aw", Var: "LI_AW_REACH", Label: "Reach"},
	{Platform: "li", Objective: "en", Var: "LI_EN_ENGRATERATE", Label: "Engagement Rate"},
	{Platform: "li", Objective: "lg", Var: "LI_LG_LEADS", Label: "Leads"},

	{Platform: "yt", Objective: "aw", Var: "YT_AW_VIEWS", Label: "Views"},
	{Platform: "yt", Objective: "en", Var: "YT_EN_ENGRATERATE", Label: "Engagement Rate"},
	{Platform: "yt", Objective: "wt", Var: "YT_WT_CLICKS", Label: "Link Clicks"},
	{Platform: "yt", Objective: "lg", Var: "YT_LG_LEADS", Label: "Leads"},
}

// KPILabel returns the display label for a KPI variable, falling back to the
// variable name itself.
func KPILabel(kpiVar string) string {
	for _, def := range KPICatalog {
		if def.Var == kpiVar {
			return def.Label
		}
	}
	return kpiVar
}

// CatalogKPIs returns the catalog KPI variables registered for a
// platform/objective pair.
func CatalogKPIs(platform, objective string) []string {
	var vars []string
	for _, def := range KPICatalog {
		if def.Platform == platform && def.Objective == objective {
			vars = append(vars, def.Var)
		}
	}
	return vars
}
