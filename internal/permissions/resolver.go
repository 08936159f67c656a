package permissions

import (
	"strings"

	"github.com/avenirinteriors/estimation-backend/pkg/enums"
	pkgerrors "github.com/avenirinteriors/estimation-backend/pkg/errors"
)

// tierPrecedence orders the view tokens from widest to narrowest scope.
// A caller holding several tokens gets the widest one: first match wins.
var tierPrecedence = []struct {
	token string
	tier  enums.Tier
}{
	{enums.PermissionViewAllEstimates, enums.TierAll},
	{enums.PermissionViewMemberEstimates, enums.TierMember},
	{enums.PermissionViewTeamEstimates, enums.TierTeam},
	{enums.PermissionViewEstimate, enums.TierSelf},
}

// Resolve classifies a caller's grants for the given module into a single
// visibility tier. The permissions map is taken as an argument; the
// resolver never reads request-global state. Module keys are matched
// case-insensitively.
func Resolve(permissionsByModule map[string][]string, module string) (enums.Tier, error) {
	module = strings.ToLower(strings.TrimSpace(module))
	if module == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "module is required")
	}

	var grants []string
	for key, perms := range permissionsByModule {
		if strings.ToLower(strings.TrimSpace(key)) == module {
			grants = append(grants, perms...)
		}
	}

	held := make(map[string]struct{}, len(grants))
	for _, g := range grants {
		held[g] = struct{}{}
	}

	for _, candidate := range tierPrecedence {
		if _, ok := held[candidate.token]; ok {
			return candidate.tier, nil
		}
	}

	return "", pkgerrors.New(pkgerrors.CodeForbidden, "no view permissions for module "+module)
}
