package digistore

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// setPostParam flattens value into values the way the api expects:
// nested maps and lists become bracketed keys such as arg2[email] or arg3[0].
func setPostParam(values url.Values, key string, value any) {
	switch v := value.(type) {
	case nil:
		return
	case string:
		values.Set(key, v)
	case bool:
		if v {
			values.Set(key, "1")
		} else {
			values.Set(key, "0")
		}
	case int:
		values.Set(key, strconv.Itoa(v))
	case int64:
		values.Set(key, strconv.FormatInt(v, 10))
	case float64:
		values.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
	case json.Number:
		values.Set(key, v.String())
	case decimal.Decimal:
		values.Set(key, v.String())
	case map[string]string:
		for _, k := range sortedKeys(v) {
			setPostParam(values, key+"["+k+"]", v[k])
		}
	case map[string]any:
		for _, k := range sortedKeys(v) {
			setPostParam(values, key+"["+k+"]", v[k])
		}
	case []string:
		for i, one := range v {
			setPostParam(values, key+"["+strconv.Itoa(i)+"]", one)
		}
	case []any:
		for i, one := range v {
			setPostParam(values, key+"["+strconv.Itoa(i)+"]", one)
		}
	default:
		// Structs and other shapes go through their json form so field tags decide the keys.
		generic, err := toGeneric(v)
		if err != nil {
			values.Set(key, fmt.Sprint(v))
			return
		}
		setPostParam(values, key, generic)
	}
}

func toGeneric(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	var generic any
	if err := unmarshalUseNumber(raw, &generic); err != nil {
		return nil, err
	}

	return generic, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
