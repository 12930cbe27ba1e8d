package models

// EmotionGroup bundles a mood group with its selectable details, as presented
// by the writing wizard.
type EmotionGroup struct {
	Group   string   `json:"group"`
	Details []string `json:"details"`
}

// EmotionCatalog lists the selectable emotions in presentation order.
var EmotionCatalog = []EmotionGroup{
	{Group: "😀 긍정", Details: []string{"기쁨", "감사", "자신감", "설렘", "평온"}},
	{Group: "😐 보통", Details: []string{"그냥 그래요", "지루함"}},
	{Group: "😢 부정", Details: []string{"슬픔", "불안", "짜증"}},
}

// ComposeEmotion renders the stored free-form composite for a selection.
func ComposeEmotion(group, detail string) string {
	return group + " - " + detail
}
