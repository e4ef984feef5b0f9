package recommend

import "strings"

func BuildUserProfileText(skillNames []string, keywords, about string) string {
	parts := make([]string, 0, len(skillNames)+2)
	for _, s := range skillNames {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}
	if k := strings.TrimSpace(keywords); k != "" {
		parts = append(parts, k)
	}
	if a := strings.TrimSpace(about); a != "" {
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

func BuildVacancyText(title, description, requirements, responsibilities, company string) string {
	parts := make([]string, 0, 5)
	if t := strings.TrimSpace(title); t != "" {
		parts = append(parts, t)
	}
	if d := strings.TrimSpace(description); d != "" {
		parts = append(parts, d)
	}
	if r := strings.TrimSpace(requirements); r != "" {
		parts = append(parts, r)
	}
	if r := strings.TrimSpace(responsibilities); r != "" {
		parts = append(parts, r)
	}
	if c := strings.TrimSpace(company); c != "" {
		parts = append(parts, c)
	}
	return strings.Join(parts, " ")
}
