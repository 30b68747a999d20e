package postgres

import (
	"fmt"
	"strings"

	"github.com/aryamansrivastava/account-service/internal/auth/domain"
	autherror "github.com/aryamansrivastava/account-service/internal/errors"
)

// predicateBuilder renders one filter clause using placeholder $n.
type predicateBuilder func(n int, clause domain.FilterClause) (string, any)

var filterPredicates = map[domain.FilterKind]predicateBuilder{
	domain.FilterName: func(n int, c domain.FilterClause) (string, any) {
		return fmt.Sprintf("(u.first_name ILIKE $%d OR u.last_name ILIKE $%d)", n, n), likePattern(c.Text)
	},
	domain.FilterEmail: func(n int, c domain.FilterClause) (string, any) {
		return fmt.Sprintf("u.email ILIKE $%d", n), likePattern(c.Text)
	},
	domain.FilterDate: func(n int, c domain.FilterClause) (string, any) {
		return fmt.Sprintf("u.created_at::date = $%d::date", n), c.Day
	},
	domain.FilterDevice: func(n int, c domain.FilterClause) (string, any) {
		return fmt.Sprintf(`(SELECT d.name FROM devices d WHERE d.user_id = u.id
			ORDER BY d.created_at DESC LIMIT 1) = $%d`, n), c.Text
	},
	domain.FilterLastLogin: func(n int, c domain.FilterClause) (string, any) {
		return fmt.Sprintf("(SELECT MAX(s.start_time) FROM sessions s WHERE s.user_id = u.id) >= $%d", n), c.Day
	},
}

func buildUserWhere(q domain.UserListQuery) (string, []any, error) {
	var (
		conds []string
		args  []any
	)

	if q.Search != "" {
		args = append(args, likePattern(q.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf("(u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR u.email ILIKE $%d)", n, n, n))
	}

	for _, clause := range q.Filters {
		build, ok := filterPredicates[clause.Kind]
		if !ok {
			return "", nil, fmt.Errorf("%w: unsupported key %q", autherror.ErrInvalidFilter, clause.Kind)
		}
		cond, arg := build(len(args)+1, clause)
		args = append(args, arg)
		conds = append(conds, cond)
	}

	if len(conds) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
