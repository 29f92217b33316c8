package delivery

import (
	"strings"

	"dispatch/internal/entities"
)

// isProgressStatus статусы, которые водитель выставляет сам по ходу
// доставки. Остальные переходы идут через отдельные операции.
func isProgressStatus(status entities.DeliveryStatus) bool {
	switch status {
	case entities.DeliveryArrivingRestaurant,
		entities.DeliveryAtRestaurant,
		entities.DeliveryPickedUp,
		entities.DeliveryInTransit,
		entities.DeliveryArrived:
		return true
	default:
		return false
	}
}

func isValidProof(proof entities.ProofOfDelivery) bool {
	switch proof.Type {
	case entities.ProofPhoto:
		return strings.TrimSpace(proof.PhotoURL) != ""
	case entities.ProofSignature:
		return strings.TrimSpace(proof.SignatureURL) != ""
	case entities.ProofOTP, entities.ProofContactless:
		return true
	default:
		return false
	}
}

func isValidIssueType(issueType entities.IssueType) bool {
	switch issueType {
	case entities.IssueRestaurantDelay,
		entities.IssueCustomerNotFound,
		entities.IssueWrongAddress,
		entities.IssueDamagedItems,
		entities.IssueVehicleProblem,
		entities.IssueOther:
		return true
	default:
		return false
	}
}

func isValidSender(sender entities.ChatSender) bool {
	switch sender {
	case entities.ChatSenderDriver,
		entities.ChatSenderCustomer,
		entities.ChatSenderRestaurant,
		entities.ChatSenderSystem:
		return true
	default:
		return false
	}
}
