package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramGateway hosts tickets as forum topics inside one supergroup.
// A ticket channel id is the topic's message_thread_id. Forum-topic
// methods postdate the client library, so they go through MakeRequest
// with locally defined wire structs; the library still provides
// transport, auth and file resolution.
type TelegramGateway struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	logger  *zap.Logger
	updates chan Update
}

// NewTelegramGateway authorizes the bot and prepares the update stream.
func NewTelegramGateway(token string, chatID int64, logger *zap.Logger) (*TelegramGateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("authorize bot: %w", err)
	}
	logger.Info("telegram bot authorized", zap.String("username", bot.Self.UserName))
	return &TelegramGateway{
		bot:     bot,
		chatID:  chatID,
		logger:  logger,
		updates: make(chan Update, 64),
	}, nil
}

type forumTopicResult struct {
	MessageThreadID int64 `json:"message_thread_id"`
}

type sentMessageResult struct {
	MessageID int64 `json:"message_id"`
}

// CreateTicketChannel opens a new forum topic for the customer.
func (g *TelegramGateway) CreateTicketChannel(ctx context.Context, customer Customer) (string, error) {
	name := sanitizeTopicName("ticket-" + customer.DisplayName)
	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", g.chatID)
	params.AddNonEmpty("name", name)

	resp, err := g.bot.MakeRequest("createForumTopic", params)
	if err != nil {
		return "", fmt.Errorf("createForumTopic: %w", err)
	}
	var topic forumTopicResult
	if err := json.Unmarshal(resp.Result, &topic); err != nil {
		return "", fmt.Errorf("decode forum topic: %w", err)
	}
	return strconv.FormatInt(topic.MessageThreadID, 10), nil
}

// SendMessage posts into the ticket topic and returns the message id.
func (g *TelegramGateway) SendMessage(ctx context.Context, channelID string, msg Message) (string, error) {
	threadID, err := parseChannelID(channelID)
	if err != nil {
		return "", err
	}

	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", g.chatID)
	params.AddNonZero64("message_thread_id", threadID)

	endpoint := "sendMessage"
	if msg.ImageURL != "" {
		endpoint = "sendPhoto"
		params.AddNonEmpty("photo", msg.ImageURL)
		params.AddNonEmpty("caption", msg.Text)
	} else {
		params.AddNonEmpty("text", msg.Text)
	}
	if markup := buttonMarkup(msg.Buttons); markup != nil {
		if err := params.AddInterface("reply_markup", markup); err != nil {
			return "", err
		}
	}

	resp, err := g.bot.MakeRequest(endpoint, params)
	if err != nil {
		return "", fmt.Errorf("%s: %w", endpoint, err)
	}
	var sent sentMessageResult
	if err := json.Unmarshal(resp.Result, &sent); err != nil {
		return "", fmt.Errorf("decode sent message: %w", err)
	}
	return strconv.FormatInt(sent.MessageID, 10), nil
}

// EditMessage replaces a previously sent text message in place.
func (g *TelegramGateway) EditMessage(ctx context.Context, channelID, messageID string, msg Message) error {
	msgID, err := strconv.ParseInt(messageID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid message id %q: %w", messageID, err)
	}

	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", g.chatID)
	params.AddNonZero64("message_id", msgID)
	params.AddNonEmpty("text", msg.Text)
	if markup := buttonMarkup(msg.Buttons); markup != nil {
		if err := params.AddInterface("reply_markup", markup); err != nil {
			return err
		}
	}

	if _, err := g.bot.MakeRequest("editMessageText", params); err != nil {
		return fmt.Errorf("editMessageText: %w", err)
	}
	return nil
}

// PinMessage pins the receipt so it stays visible in the topic.
func (g *TelegramGateway) PinMessage(ctx context.Context, channelID, messageID string) error {
	msgID, err := strconv.ParseInt(messageID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid message id %q: %w", messageID, err)
	}

	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", g.chatID)
	params.AddNonZero64("message_id", msgID)
	params.AddBool("disable_notification", true)

	if _, err := g.bot.MakeRequest("pinChatMessage", params); err != nil {
		return fmt.Errorf("pinChatMessage: %w", err)
	}
	return nil
}

// RestrictCustomer closes the topic, which stops further customer posts.
func (g *TelegramGateway) RestrictCustomer(ctx context.Context, channelID, customerID string) error {
	threadID, err := parseChannelID(channelID)
	if err != nil {
		return err
	}

	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", g.chatID)
	params.AddNonZero64("message_thread_id", threadID)

	if _, err := g.bot.MakeRequest("closeForumTopic", params); err != nil {
		return fmt.Errorf("closeForumTopic: %w", err)
	}
	return nil
}

// Updates returns the inbound event stream; Run must be started first.
func (g *TelegramGateway) Updates() <-chan Update {
	return g.updates
}

// AnswerAction shows a popup to the user who pressed a button.
func (g *TelegramGateway) AnswerAction(ctx context.Context, callbackID, text string) error {
	params := tgbotapi.Params{}
	params.AddNonEmpty("callback_query_id", callbackID)
	params.AddNonEmpty("text", truncate(text, 200))
	params.AddBool("show_alert", true)

	if _, err := g.bot.MakeRequest("answerCallbackQuery", params); err != nil {
		return fmt.Errorf("answerCallbackQuery: %w", err)
	}
	return nil
}

// Run long-polls for updates until ctx is cancelled. The stock update
// types in the client predate forum topics, so the raw payload is
// decoded locally to keep message_thread_id.
func (g *TelegramGateway) Run(ctx context.Context) {
	defer close(g.updates)

	var offset int64
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		batch, err := g.fetchUpdates(offset)
		if err != nil {
			g.logger.Warn("getUpdates failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, raw := range batch {
			if raw.UpdateID >= offset {
				offset = raw.UpdateID + 1
			}
			update, ok := g.translate(raw)
			if !ok {
				continue
			}
			select {
			case g.updates <- update:
			case <-ctx.Done():
				return
			}
		}
	}
}

type rawUser struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

type rawChat struct {
	ID int64 `json:"id"`
}

type rawPhotoSize struct {
	FileID string `json:"file_id"`
}

type rawDocument struct {
	FileID string `json:"file_id"`
}

type rawMessage struct {
	MessageID int64          `json:"message_id"`
	ThreadID  int64          `json:"message_thread_id"`
	From      *rawUser       `json:"from"`
	Chat      rawChat        `json:"chat"`
	Text      string         `json:"text"`
	Photo     []rawPhotoSize `json:"photo"`
	Document  *rawDocument   `json:"document"`
}

type rawCallbackQuery struct {
	ID      string      `json:"id"`
	From    rawUser     `json:"from"`
	Data    string      `json:"data"`
	Message *rawMessage `json:"message"`
}

type rawUpdate struct {
	UpdateID      int64             `json:"update_id"`
	Message       *rawMessage       `json:"message"`
	CallbackQuery *rawCallbackQuery `json:"callback_query"`
}

func (g *TelegramGateway) fetchUpdates(offset int64) ([]rawUpdate, error) {
	params := tgbotapi.Params{}
	params.AddNonZero64("offset", offset)
	params.AddNonZero("timeout", 30)
	if err := params.AddInterface("allowed_updates", []string{"message", "callback_query"}); err != nil {
		return nil, err
	}

	resp, err := g.bot.MakeRequest("getUpdates", params)
	if err != nil {
		return nil, err
	}
	var batch []rawUpdate
	if err := json.Unmarshal(resp.Result, &batch); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	return batch, nil
}

func (g *TelegramGateway) translate(raw rawUpdate) (Update, bool) {
	if cq := raw.CallbackQuery; cq != nil {
		if cq.Message == nil || cq.Message.Chat.ID != g.chatID {
			return Update{}, false
		}
		return Update{Action: &ActionEvent{
			ChannelID:   strconv.FormatInt(cq.Message.ThreadID, 10),
			UserID:      strconv.FormatInt(cq.From.ID, 10),
			DisplayName: displayName(cq.From),
			Action:      cq.Data,
			CallbackID:  cq.ID,
		}}, true
	}

	msg := raw.Message
	if msg == nil || msg.From == nil || msg.From.IsBot || msg.Chat.ID != g.chatID {
		return Update{}, false
	}

	if strings.HasPrefix(msg.Text, "/") {
		command, args := splitCommand(msg.Text)
		return Update{Command: &CommandEvent{
			ChannelID:   strconv.FormatInt(msg.ThreadID, 10),
			UserID:      strconv.FormatInt(msg.From.ID, 10),
			DisplayName: displayName(*msg.From),
			Command:     command,
			Args:        args,
		}}, true
	}

	if fileID := attachmentFileID(msg); fileID != "" {
		url, err := g.bot.GetFileDirectURL(fileID)
		if err != nil {
			g.logger.Warn("resolve attachment url", zap.Error(err))
			return Update{}, false
		}
		return Update{Attachment: &AttachmentEvent{
			ChannelID:     strconv.FormatInt(msg.ThreadID, 10),
			AuthorID:      strconv.FormatInt(msg.From.ID, 10),
			AttachmentURL: url,
		}}, true
	}

	return Update{}, false
}

func attachmentFileID(msg *rawMessage) string {
	if len(msg.Photo) > 0 {
		// sizes are ordered smallest first; keep the original
		return msg.Photo[len(msg.Photo)-1].FileID
	}
	if msg.Document != nil {
		return msg.Document.FileID
	}
	return ""
}

func buttonMarkup(rows [][]Button) *tgbotapi.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		line := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := btn.Label
			action := btn.Action
			if btn.Disabled {
				label = "🔒 " + label
				action = DisabledActionPrefix + btn.Action
			}
			line = append(line, tgbotapi.NewInlineKeyboardButtonData(label, action))
		}
		keyboard = append(keyboard, line)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	return &markup
}

func splitCommand(text string) (command, args string) {
	text = strings.TrimPrefix(text, "/")
	head, tail, _ := strings.Cut(text, " ")
	head, _, _ = strings.Cut(head, "@")
	return strings.ToLower(head), strings.TrimSpace(tail)
}

func displayName(u rawUser) string {
	if u.Username != "" {
		return u.Username
	}
	return u.FirstName
}

func parseChannelID(channelID string) (int64, error) {
	id, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid channel id %q: %w", channelID, err)
	}
	return id, nil
}

func sanitizeTopicName(name string) string {
	name = strings.ToLower(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return truncate(b.String(), 64)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
