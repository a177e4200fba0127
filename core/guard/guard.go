package guard

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/growthsystem/erpchat/core/domain"
	"github.com/growthsystem/erpchat/core/domain/interfaces"
	"github.com/growthsystem/erpchat/core/infrastructure/logging"
)

// Operation classes the guard permits, keyed by leading SQL verb.
var allowedOperations = map[string]string{
	"SELECT":   "read",
	"INSERT":   "create",
	"SHOW":     "read",
	"DESCRIBE": "read",
}

var (
	// Dangerous verbs that are never allowed, checked before any
	// structural parsing.
	forbiddenVerbPattern = regexp.MustCompile(`(?i)\b(DELETE|DROP|TRUNCATE|ALTER|UPDATE|GRANT|REVOKE|CREATE\s+DATABASE|DROP\s+DATABASE)\b`)
	// Stored procedure invocations and the XP_/SP_ identifier families.
	storedProcPattern = regexp.MustCompile(`(?i)\b(EXEC|EXECUTE)\b|(?i)\b(XP_|SP_)\w*`)
	// Comment markers that could hide injected text.
	commentPattern = regexp.MustCompile(`--|#|/\*`)

	tablePattern       = regexp.MustCompile("(?i)\\b(?:FROM|JOIN)\\s+`?([A-Za-z0-9_]+)`?")
	insertTablePattern = regexp.MustCompile("(?i)\\bINTO\\s+`?tab(\\w+)`?")
	outfilePattern     = regexp.MustCompile(`(?i)\bINTO\s+OUTFILE\b`)
)

// Guard classifies candidate SQL statements as safe or unsafe and executes
// the safe ones under the session's effective permissions. It holds no
// cross-call state beyond its policy, so concurrent calls are independent.
type Guard struct {
	mu     sync.RWMutex
	policy Policy

	oracle interfaces.PermissionOracle
	store  interfaces.RowStore
	log    logging.Logger
}

// New creates a guard for one acting principal. The oracle and store are
// injected so the guard can be tested with synthetic principals.
func New(policy Policy, oracle interfaces.PermissionOracle, store interfaces.RowStore) *Guard {
	return &Guard{
		policy: policy,
		oracle: oracle,
		store:  store,
		log:    logging.New("guard"),
	}
}

// SetPolicy swaps the active policy. Used for live config reload.
func (g *Guard) SetPolicy(policy Policy) {
	g.mu.Lock()
	g.policy = policy
	g.mu.Unlock()
}

func (g *Guard) currentPolicy() Policy {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.policy
}

// Validate decides whether a single SQL statement may run. It fails closed:
// anything it cannot positively classify as a permitted read or assisted
// create is rejected.
func (g *Guard) Validate(sql, doctype string) domain.SafetyVerdict {
	if strings.TrimSpace(sql) == "" {
		return domain.Reject("empty query")
	}

	if forbiddenVerbPattern.MatchString(sql) ||
		storedProcPattern.MatchString(sql) ||
		commentPattern.MatchString(sql) {
		return domain.Reject("forbidden operation detected")
	}

	operation := firstToken(sql)
	if _, ok := allowedOperations[operation]; !ok {
		return domain.Reject("operation '%s' is not allowed", operation)
	}

	policy := g.currentPolicy()

	if operation == "INSERT" {
		return g.validateInsert(sql, doctype, policy)
	}
	return g.validateRead(sql)
}

// validateRead covers SELECT, SHOW and DESCRIBE: every referenced entity
// must be readable by the session, and file exports are refused.
func (g *Guard) validateRead(sql string) domain.SafetyVerdict {
	for _, table := range extractTables(sql) {
		entity := TableEntity(table)
		if entity == "" {
			continue
		}
		if !g.oracle.HasReadPermission(entity) {
			return domain.Reject("no read permission for %s", entity)
		}
	}

	if outfilePattern.MatchString(sql) {
		return domain.Reject("file operations not allowed")
	}

	return domain.Allow()
}

// validateInsert covers assisted record creation. The target entity must be
// on the allow-list, creatable by the session, and the statement must not
// set any system-reserved field. Records created this way always stay in
// draft disposition because docstatus assignments are reserved.
func (g *Guard) validateInsert(sql, doctype string, policy Policy) domain.SafetyVerdict {
	entity := doctype
	if entity == "" {
		if match := insertTablePattern.FindStringSubmatch(sql); match != nil {
			entity = match[1]
		}
	}

	if entity == "" {
		return domain.Reject("cannot determine target entity for INSERT")
	}

	if !policy.AllowsInsert(entity) {
		return domain.Reject("creating %s records via the assistant is not allowed", entity)
	}

	if !g.oracle.HasCreatePermission(entity) {
		return domain.Reject("no create permission for %s", entity)
	}

	if field := policy.ReservedFieldIn(sql); field != "" {
		return domain.Reject("cannot set system field: %s", field)
	}

	return domain.Allow()
}

// Execute validates the statement and, if permitted, runs it against the row
// store. Every failure mode is reported in the result; SQL text originates
// from an LLM and is expected to occasionally be invalid, so nothing here
// may escape as an unhandled fault.
func (g *Guard) Execute(ctx context.Context, sql, doctype string) (result domain.QueryResult) {
	defer func() {
		if r := recover(); r != nil {
			g.log.Errorf("Row store panic recovered: %v", r)
			queriesTotal.WithLabelValues(verdictFailed).Inc()
			result = domain.QueryResult{
				Success: false,
				Error:   fmt.Sprintf("query execution failed: %v", r),
			}
		}
	}()

	verdict := g.Validate(sql, doctype)
	if !verdict.Allowed {
		g.log.Warnf("Query rejected: %s", verdict.Reason)
		queriesTotal.WithLabelValues(verdictRejected).Inc()
		return domain.QueryResult{Success: false, Error: verdict.Reason}
	}

	rows, err := g.store.Execute(ctx, sql)
	if err != nil {
		g.log.Errorf("Query execution error: %v", err)
		queriesTotal.WithLabelValues(verdictFailed).Inc()
		return domain.QueryResult{
			Success: false,
			Error:   fmt.Sprintf("query execution failed: %v", err),
		}
	}

	queriesTotal.WithLabelValues(verdictAllowed).Inc()
	return domain.QueryResult{Success: true, Rows: rows}
}

// firstToken returns the upper-cased leading token of the statement.
func firstToken(sql string) string {
	fields := strings.Fields(strings.ToUpper(strings.TrimSpace(sql)))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// extractTables collects table identifiers following FROM and JOIN clauses,
// with optional backtick quoting.
func extractTables(sql string) []string {
	seen := make(map[string]bool)
	var tables []string
	for _, match := range tablePattern.FindAllStringSubmatch(sql, -1) {
		table := match[1]
		if !seen[table] {
			seen[table] = true
			tables = append(tables, table)
		}
	}
	return tables
}
