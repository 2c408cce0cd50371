package canodds

// Groups is the official CAN 2025 group draw, keyed by group letter
var Groups = map[string][]string{
	"A": {"Maroc", "Mali", "Zambie", "Comores"},
	"B": {"Égypte", "Afrique du Sud", "Angola", "Zimbabwe"},
	"C": {"Nigeria", "Tunisie", "Ouganda", "Tanzanie"},
	"D": {"Sénégal", "RD Congo", "Bénin", "Botswana"},
	"E": {"Algérie", "Burkina Faso", "Guinée Équatoriale", "Soudan"},
	"F": {"Côte d'Ivoire", "Cameroun", "Gabon", "Mozambique"},
}

// GroupsCopy returns a copy of Groups that callers may modify
func GroupsCopy() map[string][]string {
	out := make(map[string][]string, len(Groups))
	for k, teams := range Groups {
		out[k] = append([]string(nil), teams...)
	}
	return out
}

// GroupOf returns the letter of the group containing team
func GroupOf(team string) (string, bool) {
	for letter, teams := range Groups {
		for _, t := range teams {
			if t == team {
				return letter, true
			}
		}
	}
	return "", false
}
