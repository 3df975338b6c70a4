package auth

import (
	"encoding/json"
	"epicq/lib/models"
	"fmt"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
)

// Claims represents the JWT claims extracted from the API Gateway authorizer context.
// The custom claims are added by the token customizer.
type Claims struct {
	UserID     int64  `json:"user_id"`
	Email      string `json:"email"`
	CognitoID  string `json:"sub"`
	Name       string `json:"name,omitempty"`
	Role       string `json:"role"`
	HospitalID *int64 `json:"hospital_id,omitempty"` // Coordinators only
}

// IsAdmin reports whether the caller may manage hospitals and users
func (c *Claims) IsAdmin() bool {
	return c.Role == models.UserRoleAdmin
}

// IsCoordinator reports whether the caller is a hospital coordinator
func (c *Claims) IsCoordinator() bool {
	return c.Role == models.UserRoleCoordinator
}

// CoordinatesHospital reports whether the caller is the coordinator of hospitalID
func (c *Claims) CoordinatesHospital(hospitalID int64) bool {
	return c.IsCoordinator() && c.HospitalID != nil && *c.HospitalID == hospitalID
}

// ExtractClaimsFromRequest extracts and parses JWT claims from API Gateway request
func ExtractClaimsFromRequest(request events.APIGatewayProxyRequest) (*Claims, error) {
	// Get claims from authorizer context
	var claimsMap map[string]interface{}
	var ok bool

	// Try different possible claim locations in the authorizer context
	if authClaims, exists := request.RequestContext.Authorizer["claims"]; exists {
		claimsMap, ok = authClaims.(map[string]interface{})
	}

	// If claims not found, try direct access to authorizer (some API Gateway configurations)
	if !ok {
		claimsMap = request.RequestContext.Authorizer
		ok = (claimsMap != nil)
	}

	if !ok || claimsMap == nil {
		return nil, fmt.Errorf("claims not found in authorizer context")
	}

	userIDValue, exists := claimsMap["user_id"]
	if !exists {
		return nil, fmt.Errorf("user_id not found in claims")
	}
	userID, err := parseIDClaim("user_id", userIDValue)
	if err != nil {
		return nil, err
	}

	// Extract email
	email, ok := claimsMap["email"].(string)
	if !ok {
		return nil, fmt.Errorf("email not found or invalid in claims")
	}

	// Extract Cognito ID (sub)
	cognitoID, ok := claimsMap["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("sub not found or invalid in claims")
	}

	role, ok := claimsMap["role"].(string)
	if !ok || (role != models.UserRoleAdmin && role != models.UserRoleCoordinator) {
		return nil, fmt.Errorf("role not found or invalid in claims")
	}

	claims := &Claims{
		UserID:    userID,
		Email:     email,
		CognitoID: cognitoID,
		Role:      role,
	}
	claims.Name, _ = claimsMap["name"].(string)

	// hospital_id is optional; an empty string means no assignment
	if hospitalValue, exists := claimsMap["hospital_id"]; exists {
		if s, isString := hospitalValue.(string); !isString || s != "" {
			hospitalID, err := parseIDClaim("hospital_id", hospitalValue)
			if err != nil {
				return nil, err
			}
			claims.HospitalID = &hospitalID
		}
	}

	return claims, nil
}

// parseIDClaim accepts numeric claims encoded as strings or JSON numbers
func parseIDClaim(name string, value interface{}) (int64, error) {
	switch v := value.(type) {
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse %s string: %w", name, err)
		}
		return id, nil
	case float64:
		// JSON numbers are parsed as float64
		return int64(v), nil
	default:
		return 0, fmt.Errorf("%s has unexpected type", name)
	}
}

// ToJSON converts claims to JSON string for logging
func (c *Claims) ToJSON() string {
	data, _ := json.Marshal(c)
	return string(data)
}
