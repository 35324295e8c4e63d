package dialogue

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/tbxark/stickeragent/types"
)

const (
	sizeQuestion      = `What size would you like? (e.g., 3x3, 4x4, or type "default")`
	fieldsInstruction = "title/heading, names, date, and courtesy"
)

// NextQuestion is the canonical slot-filling prompt. Every path that resumes
// collection goes through it so prompts stay the same however a field was
// filled.
func NextQuestion(ctx types.DialogueContext) string {
	switch {
	case !ctx.HasTitle:
		return `What title/heading would you like on the sticker? (e.g., "Alhamdulillah On Your Wedding Ceremony")`
	case !ctx.HasName:
		return "What are the couple's names?"
	case !ctx.HasDate:
		return "What's the wedding date?"
	case !ctx.HasCourtesy:
		return "Who is the sticker from? (e.g., 'The Smith Family')"
	default:
		return "All details received! Would you like to add a picture?"
	}
}

func missingList(ctx types.DialogueContext) string {
	return types.DisplayNames(ctx.MissingFields())
}

// pick chooses a variant deterministically from the message text.
func pick(key string, options []string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(key))))
	return options[int(h.Sum32()%uint32(len(options)))]
}

func PictureActions(generateLabel string) []types.Action {
	return []types.Action{
		{Type: types.ActionUpload, Label: "Add Picture", Variant: types.VariantSecondary},
		{Type: types.ActionGeneratePreview, Label: generateLabel, Variant: types.VariantPrimary},
	}
}

func UploadActions() []types.Action {
	return []types.Action{{Type: types.ActionUpload, Label: "Add Picture", Variant: types.VariantPrimary}}
}

// PicturePrompt asks whether to add a picture before generating.
func PicturePrompt(text string) Reply {
	return Reply{Text: text, Actions: PictureActions("Generate")}
}

func SizePrompt() Reply {
	return Reply{Text: sizeQuestion}
}

func SizeSetReply(size string) Reply {
	return Reply{Text: fmt.Sprintf("Perfect! Size set to %s inches. Creating your sticker now! ✨", size)}
}

func PictureRequestReply() Reply {
	return Reply{Text: `Sure! You can add a picture now. Tap "Add Picture" and choose your image.`, Actions: UploadActions()}
}

func PictureUploadReply() Reply {
	return Reply{Text: `Great! Tap "Add Picture" below to upload your image.`, Actions: UploadActions()}
}

func GreetingReply(msg string, ctx types.DialogueContext, now time.Time) Reply {
	greet := "Hello!"
	switch h := now.Hour(); {
	case h >= 5 && h < 12:
		greet = "Good morning!"
	case h >= 12 && h < 17:
		greet = "Good afternoon!"
	case h >= 17 && h < 21:
		greet = "Good evening!"
	}
	if salamPattern.MatchString(msg) {
		greet = "Wa alaikum assalam!"
	}
	if ctx.Complete() {
		return Reply{Text: greet + " You can generate your sticker now."}
	}
	return Reply{Text: fmt.Sprintf("%s Please provide: %s.", greet, missingList(ctx))}
}

func WhoAreYouReply() Reply {
	return Reply{Text: "I create stickers for weddings, graduations, birthdays, naming ceremonies, and more. Send: " + fieldsInstruction + "."}
}

func HowAreYouReply(msg string) Reply {
	return Reply{Text: pick(msg, []string{
		"I'm doing wonderful, thanks for asking! 😊 Ready to help create something special for you!",
		"Great, thank you! 💕 So excited to help with your sticker today!",
		"Feeling creative and ready to help! 😊 Got a wedding to celebrate?",
	})}
}

func CapabilityReply() Reply {
	return Reply{Text: "I create stickers for weddings, graduations, birthdays, naming ceremonies, and more. Send: " + fieldsInstruction + ". You can also add a picture."}
}

func NonWeddingReply() Reply {
	return Reply{Text: "I create stickers for weddings, graduations, birthdays, naming ceremonies, and more. Please provide: " + fieldsInstruction + "."}
}

func VagueDesignReply() Reply {
	return Reply{Text: "Lovely! 💕 Please provide: " + fieldsInstruction + "."}
}

// AffirmativeReply answers a plain "yes" outside any pending question.
// generate reports that the sticker should be generated now.
func AffirmativeReply(ctx types.DialogueContext) (reply Reply, generate bool) {
	switch {
	case ctx.HasPreview:
		return Reply{Text: "Your sticker is ready! You can download it or make edits. 😊"}, false
	case ctx.Complete():
		return Reply{Text: "Got it! Generating your sticker now... 😊"}, true
	}
	var missing []string
	if !ctx.HasTitle {
		missing = append(missing, "title/heading")
	}
	if !ctx.HasName {
		missing = append(missing, "couple's names")
	}
	if !ctx.HasDate {
		missing = append(missing, "wedding date")
	}
	if !ctx.HasCourtesy {
		missing = append(missing, "courtesy")
	}
	return Reply{Text: fmt.Sprintf("I still need: %s. 😊", strings.Join(missing, ", "))}, false
}

func ChangeReply(field string) Reply {
	switch {
	case strings.Contains(field, "name"):
		return Reply{Text: `Sure! What are the new names? (e.g., "John & Sarah")`}
	case strings.Contains(field, "date"):
		return Reply{Text: `Sure! What is the new date? (e.g., "June 15, 2025")`}
	case strings.Contains(field, "message"), strings.Contains(field, "courtesy"), strings.Contains(field, "text"):
		return Reply{Text: "Sure! What is the new courtesy message?"}
	default:
		return Reply{Text: fmt.Sprintf("Sure! Please share the new %s you'd like to use.", field)}
	}
}

// NegativeReply answers a plain "no". With every field known and no preview
// yet, "no" means "no picture, just generate".
func NegativeReply(ctx types.DialogueContext) (reply Reply, generate bool) {
	if ctx.Complete() && !ctx.HasPreview {
		return Reply{Text: "Got it! Generating your sticker now... 😊"}, true
	}
	return Reply{Text: "No problem! Just let me know whenever you're ready to create a sticker. I'm here to help! 😊"}, false
}

func ThanksReply(msg string, hasPreview bool) Reply {
	if hasPreview {
		return Reply{Text: pick(msg, []string{
			"You're welcome! 😊 Feel free to download your sticker or let me know if you'd like any changes!",
			"Glad you like it! 💕 Download anytime, or I can make tweaks if needed!",
			"My pleasure! Your sticker is ready to download. Need anything else?",
		})}
	}
	return Reply{Text: pick(msg, []string{
		"You're welcome! Ready to create your sticker whenever you are! 😊",
		"Anytime! Let me know the couple's names and date when you're ready! 💒",
		"Happy to help! Just share the details and I'll design something beautiful!",
	})}
}

func HelpReply() Reply {
	return Reply{Text: "Send: " + fieldsInstruction + ". You can also add a picture."}
}

func StartReply() Reply {
	return Reply{Text: "Please provide your sticker details: " + fieldsInstruction + ". If you're not sure about the title, tell me and I'll help you choose one."}
}

func PricingReply() Reply {
	return Reply{Text: "Creating stickers is free! 🎉 Send the " + fieldsInstruction + ", and I'll design it for you."}
}

func ConfusedReply() Reply {
	return Reply{Text: "Just send your details: title/heading, couple's names, wedding date, and courtesy."}
}

func TitleConfirmPrompt(title string) Reply {
	return Reply{Text: fmt.Sprintf(`You've entered "%s" as the title. Would you like to use this title? (Yes/No)`, title)}
}

// TitleResolvedPrefix opens the reply to a title confirmation. accepted
// selects between "using your title" and "keeping the current title".
func TitleResolvedPrefix(title string, accepted bool) string {
	if accepted {
		return fmt.Sprintf(`Got it! Using "%s" as your title.`, title)
	}
	return "Alright! Keeping the current title."
}

func TitleOnlyReply(title string, ctx types.DialogueContext) Reply {
	return Reply{Text: fmt.Sprintf(`Great! Using "%s" as your title. %s`, title, NextQuestion(ctx))}
}

func NameConfirmPrompt(name1, name2 string) Reply {
	if name2 == "" {
		return Reply{Text: fmt.Sprintf(`Just to confirm, is the name "%s"? (Yes/No)`, name1)}
	}
	return Reply{Text: fmt.Sprintf(`Just to confirm, are the names "%s" & "%s"? (Yes/No)`, name1, name2)}
}

func NamesConfirmedPrefix(name1, name2 string) string {
	if name2 == "" {
		return fmt.Sprintf("Great! Name set to %s.", name1)
	}
	return fmt.Sprintf("Great! Names set to %s & %s.", name1, name2)
}

func NamesRejectedReply() Reply {
	return Reply{Text: `No problem. Please type the names exactly as they should appear (e.g., "Aisha & Suleiman").`}
}

func NamesOnlyReply(name1, name2 string, ctx types.DialogueContext) Reply {
	return Reply{Text: fmt.Sprintf("Excellent! I've got the names: %s & %s. Please provide the %s.", name1, name2, missingList(ctx))}
}

func DateOnlyReply(date string, ctx types.DialogueContext) Reply {
	return Reply{Text: fmt.Sprintf("Got the date: %s. Please provide the %s.", date, missingList(ctx))}
}

func CourtesyOnlyReply(courtesy string, hasPhoto bool) (reply Reply, askPicture bool) {
	if !hasPhoto {
		return PicturePrompt("Got it! Would you like to add a picture?"), true
	}
	return Reply{Text: fmt.Sprintf(`Got the courtesy: "%s". %s`, courtesy, sizeQuestion)}, false
}

// FallbackReply is used when nothing in the message could be understood.
func FallbackReply(ctx types.DialogueContext) Reply {
	if missing := ctx.MissingFields(); len(missing) > 0 {
		return Reply{Text: fmt.Sprintf("Please provide the %s for your sticker.", types.DisplayNames(missing))}
	}
	return Reply{Text: "All details received! Would you like to add a picture?", Actions: PictureActions("Generate")}
}

// ExtractionSuccessReply acknowledges what was found and asks for the rest.
// ctx must already reflect the stored values; partial dates are never
// stored, so they stay on the missing list.
func ExtractionSuccessReply(found types.FieldExtractionResult, ctx types.DialogueContext) Reply {
	partial := found.Date != "" && found.DateIsPartial
	var missing []string
	for _, f := range ctx.MissingFields() {
		missing = append(missing, f.DisplayName)
	}
	if len(missing) == 0 {
		return Reply{Text: "All details received!"}
	}

	var got []string
	if found.Title != "" {
		got = append(got, fmt.Sprintf(`title "%s"`, found.Title))
	}
	switch {
	case found.Name1 != "" && found.Name2 != "":
		got = append(got, fmt.Sprintf("names (%s & %s)", found.Name1, found.Name2))
	case found.Name1 != "":
		got = append(got, fmt.Sprintf(`name "%s"`, found.Name1))
	}
	if found.Date != "" {
		got = append(got, fmt.Sprintf(`date "%s"`, found.Date))
	}
	if found.Courtesy != "" {
		got = append(got, "courtesy")
	}

	prefix := "Got it. "
	if len(got) > 0 {
		prefix = fmt.Sprintf("Excellent! Got the %s. ", strings.Join(got, ", "))
	}
	text := fmt.Sprintf("%sPlease provide the %s.", prefix, strings.Join(missing, ", "))
	if partial {
		text += fmt.Sprintf(` Please share the exact day for "%s".`, found.Date)
	}
	return Reply{Text: text}
}

func ChooseMainPrompt(count int) Reply {
	actions := make([]types.Action, 0, count)
	for i := 0; i < count; i++ {
		variant := types.VariantSecondary
		if i == 0 {
			variant = types.VariantPrimary
		}
		actions = append(actions, types.Action{
			Type:    fmt.Sprintf("%s%d", types.ActionChooseMain, i),
			Label:   fmt.Sprintf("Use Photo %d as main", i+1),
			Variant: variant,
		})
	}
	return Reply{Text: fmt.Sprintf("All %d photos are cropped ✅\n\nWhich one should be the MAIN big picture?", count), Actions: actions}
}

func backgroundActions() []types.Action {
	return []types.Action{
		{Type: types.ActionBackgroundYes, Label: "Yes, remove background", Variant: types.VariantPrimary},
		{Type: types.ActionBackgroundNo, Label: "No, keep background", Variant: types.VariantSecondary},
	}
}

// BackgroundPrompt asks about background removal. main is the zero-based
// main photo index, or -1 for a single photo.
func BackgroundPrompt(main int) Reply {
	if main < 0 {
		return Reply{Text: "Do you want me to remove the background from your photo?", Actions: backgroundActions()}
	}
	return Reply{
		Text:    fmt.Sprintf("Great! I'll use Photo %d as the MAIN picture.\n\nDo you want me to remove the background from ALL your photos?", main+1),
		Actions: backgroundActions(),
	}
}

func BackgroundDecisionReply(remove bool) Reply {
	if remove {
		return Reply{Text: "Got it! I'll remove backgrounds for your photos. 🎨"}
	}
	return Reply{Text: "Okay! I'll keep the backgrounds. 📸"}
}

func CreatingNowReply() Reply {
	return Reply{Text: "Perfect! Let me create your sticker now! 🎨"}
}

func UploadSizeQuestion() Reply {
	return Reply{Text: "What size would you like the sticker? (e.g., '3x3' or 'default' for 4x4 inches)"}
}
