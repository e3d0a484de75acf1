package ledger

import "regexp"

const (
	authorizationHeaderRuleNameConstant    = "authorization_bearer_header"
	bearerTokenRuleNameConstant            = "bearer_token"
	jsonWebTokenRuleNameConstant           = "json_web_token"
	secretAssignmentRuleNameConstant       = "secret_assignment"
	authorizationHeaderPatternConstant     = `(?i)\b(authorization)\s*:\s*bearer\s+(\S+)`
	authorizationHeaderReplacementConstant = `${1}: Bearer [REDACTED]`
	bearerTokenPatternConstant             = `\bBearer\s+[A-Za-z0-9._-]+\b`
	bearerTokenReplacementConstant         = `Bearer [REDACTED]`
	jsonWebTokenPatternConstant            = `\beyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\b`
	jsonWebTokenReplacementConstant        = `[REDACTED_JWT]`
	secretAssignmentPatternConstant        = `(?i)\b(password|passwd|secret|token|api[_-]?key|access[_-]?key)\b\s*[:=]\s*([^\s"']+)`
	secretAssignmentReplacementConstant    = `${1}=[REDACTED]`
)

// RedactionRule pairs a pattern with the replacement template applied to every match.
// Replacement follows regexp.Expand syntax.
type RedactionRule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Apply replaces every match of the rule's pattern in text.
func (rule RedactionRule) Apply(text string) string {
	return rule.Pattern.ReplaceAllString(text, rule.Replacement)
}

// DefaultRedactionRules returns the ordered rule list used for captured command output.
// The authorization-header rule must precede the generic bearer rule.
func DefaultRedactionRules() []RedactionRule {
	return []RedactionRule{
		{
			Name:        authorizationHeaderRuleNameConstant,
			Pattern:     regexp.MustCompile(authorizationHeaderPatternConstant),
			Replacement: authorizationHeaderReplacementConstant,
		},
		{
			Name:        bearerTokenRuleNameConstant,
			Pattern:     regexp.MustCompile(bearerTokenPatternConstant),
			Replacement: bearerTokenReplacementConstant,
		},
		{
			Name:        jsonWebTokenRuleNameConstant,
			Pattern:     regexp.MustCompile(jsonWebTokenPatternConstant),
			Replacement: jsonWebTokenReplacementConstant,
		},
		{
			Name:        secretAssignmentRuleNameConstant,
			Pattern:     regexp.MustCompile(secretAssignmentPatternConstant),
			Replacement: secretAssignmentReplacementConstant,
		},
	}
}

// Redactor applies an ordered list of RedactionRule values. Each rule sees the
// output of the previous one.
type Redactor struct {
	rules []RedactionRule
}

// NewRedactor constructs a Redactor over a copy of rules.
func NewRedactor(rules []RedactionRule) *Redactor {
	return &Redactor{rules: append([]RedactionRule{}, rules...)}
}

// NewDefaultRedactor constructs a Redactor over DefaultRedactionRules.
func NewDefaultRedactor() *Redactor {
	return NewRedactor(DefaultRedactionRules())
}

// Redact returns text with every rule applied in order.
func (redactor *Redactor) Redact(text string) string {
	if redactor == nil || len(text) == 0 {
		return text
	}
	redactedText := text
	for _, rule := range redactor.rules {
		redactedText = rule.Apply(redactedText)
	}
	return redactedText
}

// Rules returns a copy of the configured rules in application order.
func (redactor *Redactor) Rules() []RedactionRule {
	if redactor == nil {
		return nil
	}
	return append([]RedactionRule{}, redactor.rules...)
}
