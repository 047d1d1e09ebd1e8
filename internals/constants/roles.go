package constants

import "fmt"

// Role dasar aplikasi
const (
	RoleUser        = "user"
	RoleOperator    = "operator"    // operator lapangan di balai pelatihan
	RoleCoordinator = "coordinator" // contact person / koordinator batch
	RoleAdmin       = "admin"
	RoleOwner       = "owner"
)

// Template pesan error role
const (
	ErrOnlyCoordinatorsCanAccess = "❌ Hanya coordinator, admin, atau owner yang boleh mengakses fitur %s."
	ErrOnlyAdminsCanAccess       = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrOnlyNonUserCanAccess      = "❌ Hanya role selain 'user' yang boleh mengakses fitur %s."
)

// Fungsi helper untuk menghasilkan pesan error dinamis
func RoleErrorCoordinator(feature string) string {
	return fmt.Sprintf(ErrOnlyCoordinatorsCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorNonUser(feature string) string {
	return fmt.Sprintf(ErrOnlyNonUserCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleUser,
		RoleOperator,
		RoleCoordinator,
		RoleAdmin,
		RoleOwner,
	}

	NonUserRoles = []string{
		RoleOperator,
		RoleCoordinator,
		RoleAdmin,
		RoleOwner,
	}

	CoordinatorAndAbove = []string{
		RoleCoordinator,
		RoleAdmin,
		RoleOwner,
	}

	AdminAndAbove = []string{
		RoleAdmin,
		RoleOwner,
	}
)
