package entities

import "time"

// FreeQuestionLimit is the number of free questions per user before the
// payment gate closes.
const FreeQuestionLimit = 10

// UsageState tracks the monetized usage of one user. freeQuestionsUsed
// never exceeds FreeQuestionLimit while IsPremium is false, and IsPremium
// is monotonic: once granted it is never reset by the normal flow.
type UsageState struct {
	UserID              string     `json:"user_id" bson:"_id"`
	FreeQuestionsUsed   int        `json:"free_questions_used" bson:"free_questions_used"`
	IsPremium           bool       `json:"is_premium" bson:"is_premium"`
	TotalQuestions      int        `json:"total_questions" bson:"total_questions"`
	HasReceivedOverview bool       `json:"has_received_overview" bson:"has_received_overview"`
	PlanType            string     `json:"plan_type,omitempty" bson:"plan_type,omitempty"`
	RemainingQuestions  int        `json:"remaining_questions,omitempty" bson:"remaining_questions,omitempty"`
	PurchasedAt         *time.Time `json:"purchased_at,omitempty" bson:"purchased_at,omitempty"`
	PaymentID           string     `json:"payment_id,omitempty" bson:"payment_id,omitempty"`
}

// FreeQuestionsLeft reports the free quota remaining for a non-premium user.
func (u *UsageState) FreeQuestionsLeft() int {
	left := FreeQuestionLimit - u.FreeQuestionsUsed
	if left < 0 {
		return 0
	}
	return left
}
