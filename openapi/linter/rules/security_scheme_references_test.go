package rules_test

import (
	"testing"

	"github.com/speakeasy-api/openapi-schema-lint/openapi/linter/rules"
	"github.com/stretchr/testify/assert"
)

func TestSecuritySchemeReferencesRule_ValidCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "every scheme and scope used",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
security:
  - apiKey: []
paths:
  /movies:
    get:
      security:
        - oauth: [read]
      responses:
        '200': {description: ok}
    post:
      security:
        - oauth: [read, write]
      responses:
        '201': {description: created}
components:
  securitySchemes:
    apiKey:
      type: apiKey
      in: header
      name: X-Key
    oauth:
      type: oauth2
      flows:
        implicit:
          authorizationUrl: https://example.com/authorize
          scopes:
            read: read access
        clientCredentials:
          tokenUrl: https://example.com/token
          scopes:
            read: read access
            write: write access
`,
		},
		{
			name: "openIdConnect scopes are not checked",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
security:
  - oidc: [profile, email]
paths: {}
components:
  securitySchemes:
    oidc:
      type: openIdConnect
      openIdConnectUrl: https://example.com/.well-known/openid-configuration
`,
		},
		{
			name: "no security at all",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
paths:
  /movies:
    get:
      responses:
        '200': {description: ok}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := runRule(t, &rules.SecuritySchemeReferencesRule{}, tt.yaml, nil)
			assert.Empty(t, errs)
		})
	}
}

func TestSecuritySchemeReferencesRule_Violations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		yaml           string
		expectedErrors []string
	}{
		{
			name: "undefined, unscoped and unused schemes",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
security:
  - apiKey: []
paths:
  /movies:
    get:
      security:
        - oauth: [read]
        - missing: []
        - apiKey: [admin]
      responses:
        '200': {description: ok}
components:
  securitySchemes:
    apiKey:
      type: apiKey
      in: header
      name: X-Key
    oauth:
      type: oauth2
      flows:
        implicit:
          authorizationUrl: https://example.com
          scopes:
            read: read access
            write: write access
            admin: admin access
    basic:
      type: http
      scheme: basic
`,
			expectedErrors: []string{
				`[11:11] error security-scheme-references security scheme "missing" is not defined in components.securitySchemes`,
				`[12:19] error security-scheme-references security scheme "apiKey" of type apiKey does not support scopes`,
				`[28:13] error security-scheme-references scope "write" of security scheme "oauth" is defined but never used`,
				`[29:13] error security-scheme-references scope "admin" of security scheme "oauth" is defined but never used`,
				`[30:5] error security-scheme-references security scheme "basic" is defined but never used`,
			},
		},
		{
			name: "undeclared scope",
			yaml: `
openapi: 3.1.0
info: {title: Test, version: 1.0.0}
security:
  - oauth: [read, delete]
paths: {}
components:
  securitySchemes:
    oauth:
      type: oauth2
      flows:
        implicit:
          authorizationUrl: https://example.com
          scopes:
            read: read access
`,
			expectedErrors: []string{
				`[5:19] error security-scheme-references scope "delete" is not declared by security scheme "oauth"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := runRule(t, &rules.SecuritySchemeReferencesRule{}, tt.yaml, nil)
			assert.Equal(t, tt.expectedErrors, errorStrings(errs))
		})
	}
}
