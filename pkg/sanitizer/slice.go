package sanitizer

func NormalizeStringSlice(items []string, normalizer func(string) string) []string {
	if len(items) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))

	for _, item := range items {
		normalized := normalizer(item)
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}

	return result
}

// NormalizeIdentifiers returns a duplicate-free copy of ids.
func NormalizeIdentifiers(ids []string) []string {
	return NormalizeStringSlice(ids, NormalizeIdentifier)
}
