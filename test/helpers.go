package test

import (
	"org_relay/logic"
	"strings"
)

// fetchOf matches a fetch request for exactly the given URL.
func fetchOf(url string) func(x any) bool {
	res := func(x any) bool {
		freq, ok := x.(*logic.FetchRequest)
		if !ok {
			return false
		}
		return freq.Url == url
	}
	return res
}

func strStartsWith(prefix string) func(x any) bool {
	res := func(x any) bool {
		str, ok := x.(string)
		if !ok {
			return false
		}
		return strings.HasPrefix(str, prefix)
	}
	return res
}
