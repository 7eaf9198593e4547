package model

// QueryIncludes reports whether every key/value pair of filter appears in query.
//
//	QueryIncludes({"a": "1", "b": "2"}, {"a": "1"}) => true
//	QueryIncludes({"a": "1"}, {"a": "2"})           => false
//	QueryIncludes(anything, nil)                    => true
func QueryIncludes(query, filter map[string]string) bool {
	for k, v := range filter {
		if got, ok := query[k]; !ok || got != v {
			return false
		}
	}
	return true
}

// Specificity is the ranking key used to break ties between matching rules.
type Specificity struct {
	Headers int
	Query   int
}

func SpecificityOf(p RequestPattern) Specificity {
	return Specificity{Headers: len(p.Headers), Query: len(p.Query)}
}
