package cache

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
)

const listKeyPrefix = "catalog:list:"

// ListKey builds the listing cache key for a tenant from the query parameters.
func ListKey(tenantID string, params interface{}) (string, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s:%x", listKeyPrefix, tenantID, md5.Sum(data)), nil
}

// ListPattern matches every listing key of tenantID, or of all tenants when
// tenantID is empty.
func ListPattern(tenantID string) string {
	if tenantID == "" {
		return listKeyPrefix + "*"
	}
	return listKeyPrefix + tenantID + ":*"
}
