package auth

import (
	"errors"

	"store_rating_backend/internal/models"
)

// Action - операция, на которую проверяется доступ
type Action string

const (
	ActionListStores   Action = "stores:list"
	ActionViewStore    Action = "stores:view"
	ActionCreateStore  Action = "stores:create"
	ActionUpdateStore  Action = "stores:update"
	ActionDeleteStore  Action = "stores:delete"
	ActionViewRaters   Action = "stores:raters"
	ActionCreateRating Action = "ratings:create"
	ActionUpdateRating Action = "ratings:update"
	ActionDeleteRating Action = "ratings:delete"
	ActionChangeOwnPwd Action = "password:change"
	ActionListUsers    Action = "users:list"
	ActionCreateUser   Action = "users:create"
	ActionDeleteUser   Action = "users:delete"
	ActionViewMetrics  Action = "metrics:view"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")
	ErrSelfTarget      = errors.New("action cannot target own account")
)

// Rule - строка таблицы доступа.
// Roles пустой = любая аутентифицированная роль.
// OwnerScoped - роли, которым дополнительно нужно владеть ресурсом.
// ForbidSelf - действие нельзя направить на собственную учетную запись.
// RaterScoped - строка выбирается только среди записей автора (фильтр в репозитории).
type Rule struct {
	Public      bool
	Roles       []models.UserRole
	OwnerScoped []models.UserRole
	ForbidSelf  bool
	RaterScoped bool
}

var (
	adminOnly = []models.UserRole{models.UserRoleAdmin}
	raters    = []models.UserRole{models.UserRoleUser, models.UserRoleOwner}
)

// Permissions - единственная таблица {роль x действие x владение}
var Permissions = map[Action]Rule{
	ActionListStores:   {Public: true},
	ActionViewStore:    {Public: true},
	ActionCreateStore:  {Roles: adminOnly},
	ActionUpdateStore:  {Roles: adminOnly},
	ActionDeleteStore:  {Roles: adminOnly},
	ActionViewRaters:   {Roles: []models.UserRole{models.UserRoleAdmin, models.UserRoleOwner}, OwnerScoped: []models.UserRole{models.UserRoleOwner}},
	ActionCreateRating: {Roles: raters},
	ActionUpdateRating: {Roles: raters, RaterScoped: true},
	ActionDeleteRating: {Roles: raters, RaterScoped: true},
	ActionChangeOwnPwd: {},
	ActionListUsers:    {Roles: adminOnly},
	ActionCreateUser:   {Roles: adminOnly},
	ActionDeleteUser:   {Roles: adminOnly, ForbidSelf: true},
	ActionViewMetrics:  {Roles: adminOnly},
}

// Principal - аутентифицированный вызывающий. nil означает аноним.
type Principal struct {
	UserID uint
	Role   models.UserRole
}

// Facts - сведения о целевом ресурсе, которые знает только сервис
type Facts struct {
	OwnsResource bool
	TargetsSelf  bool
}

// Check - полная проверка по таблице
func Check(p *Principal, action Action, facts Facts) error {
	rule, err := checkRole(p, action)
	if err != nil || rule.Public {
		return err
	}
	if hasRole(rule.OwnerScoped, p.Role) && !facts.OwnsResource {
		return ErrForbidden
	}
	if rule.ForbidSelf && facts.TargetsSelf {
		return ErrSelfTarget
	}
	return nil
}

// CheckRole проверяет только колонку ролей. Владение и self-проверку
// доделывает сервис через Check.
func CheckRole(p *Principal, action Action) error {
	_, err := checkRole(p, action)
	return err
}

// IsRaterScoped - нужно ли ограничивать выборку записями вызывающего
func IsRaterScoped(action Action) bool {
	return Permissions[action].RaterScoped
}

func checkRole(p *Principal, action Action) (Rule, error) {
	rule, ok := Permissions[action]
	if !ok {
		return rule, ErrForbidden
	}
	if rule.Public {
		return rule, nil
	}
	if p == nil {
		return rule, ErrUnauthenticated
	}
	if len(rule.Roles) > 0 && !hasRole(rule.Roles, p.Role) {
		return rule, ErrForbidden
	}
	return rule, nil
}

func hasRole(roles []models.UserRole, role models.UserRole) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
