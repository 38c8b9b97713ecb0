package filesystem

import (
	"encoding/base64"
	"fmt"
)

// GetString extracts string from params with validation
func GetString(params map[string]interface{}, key string) (string, bool) {
	val, ok := params[key].(string)
	if !ok {
		return "", false
	}
	return val, true
}

// GetBool extracts bool from params with default
func GetBool(params map[string]interface{}, key string, defaultVal bool) bool {
	val, ok := params[key].(bool)
	if !ok {
		return defaultVal
	}
	return val
}

// GetInt extracts int from params with validation
func GetInt(params map[string]interface{}, key string) (int, bool) {
	switch v := params[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case int64:
		return int(v), true
	case uint32:
		return int(v), true
	default:
		return 0, false
	}
}

// GetStringSlice extracts string slice from params
func GetStringSlice(params map[string]interface{}, key string) ([]string, bool) {
	switch val := params[key].(type) {
	case []string:
		return val, true
	case []interface{}:
		result := make([]string, 0, len(val))
		for _, v := range val {
			if s, ok := v.(string); ok {
				result = append(result, s)
			}
		}
		return result, true
	default:
		return nil, false
	}
}

// GetBytes extracts binary data given either as an array of byte values
// or as a base64 string
func GetBytes(params map[string]interface{}, key string) ([]byte, error) {
	switch v := params[key].(type) {
	case []byte:
		return v, nil
	case string:
		data, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("%s is not valid base64: %w", key, err)
		}
		return data, nil
	case []interface{}:
		data := make([]byte, len(v))
		for i, item := range v {
			n, ok := item.(float64)
			if !ok || n < 0 || n > 255 || n != float64(int(n)) {
				return nil, fmt.Errorf("%s[%d] is not a byte value", key, i)
			}
			data[i] = byte(n)
		}
		return data, nil
	case nil:
		return nil, fmt.Errorf("%s parameter required", key)
	default:
		return nil, fmt.Errorf("%s must be a byte array or base64 string", key)
	}
}

func optionalString(params map[string]interface{}, key string) *string {
	if s, ok := GetString(params, key); ok && s != "" {
		return &s
	}
	return nil
}

func optionalUint32(params map[string]interface{}, key string) (*uint32, error) {
	n, ok := GetInt(params, key)
	if !ok {
		return nil, nil
	}
	if n < 0 {
		return nil, fmt.Errorf("%s must not be negative", key)
	}
	u := uint32(n)
	return &u, nil
}
