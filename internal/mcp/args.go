package mcp

import "fmt"

// parseStringArg extracts a string argument from an MCP arguments map.
// Returns an error if the argument is required but missing or invalid.
func parseStringArg(argsMap map[string]interface{}, key string, required bool) (string, error) {
	val, ok := argsMap[key]
	if !ok {
		if required {
			return "", fmt.Errorf("%s parameter is required", key)
		}
		return "", nil
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}

	if required && str == "" {
		return "", fmt.Errorf("%s cannot be empty", key)
	}

	return str, nil
}

// parseClampedInt extracts an integer argument and clamps it to
// [min, max]. MCP sends numbers as float64. Returns defaultVal if the
// argument is missing or invalid.
func parseClampedInt(argsMap map[string]interface{}, key string, defaultVal, min, max int) int {
	val, ok := argsMap[key]
	if !ok {
		return defaultVal
	}
	f, ok := val.(float64)
	if !ok {
		return defaultVal
	}
	n := int(f)
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
