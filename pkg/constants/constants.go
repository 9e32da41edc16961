package constants

// Demande statuses, stored verbatim in the database.
const (
	StatusEnAttente = "En attente"
	StatusAcceptee  = "Acceptée"
	StatusRefusee   = "Refusée"
)

// Terminal statuses: no transition leaves them.
var TerminalStatuses = []string{
	StatusAcceptee,
	StatusRefusee,
}

func IsTerminalStatus(status string) bool {
	for _, s := range TerminalStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func IsDecision(status string) bool {
	return status == StatusAcceptee || status == StatusRefusee
}

// Roles form a closed set; the role gate rejects anything else.
const (
	RoleAdmin        = "Admin"
	RoleGestionnaire = "Gestionnaire"
	RoleUtilisateur  = "Utilisateur"
)

func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleGestionnaire || role == RoleUtilisateur
}

const (
	TypeStockBureautique  = "Bureautique"
	TypeStockInformatique = "Informatique"
)

func IsValidTypeStock(typeStock string) bool {
	return typeStock == TypeStockBureautique || typeStock == TypeStockInformatique
}
