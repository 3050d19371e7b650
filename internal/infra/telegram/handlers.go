package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"attendance_ledger_bot/internal/app"
	"attendance_ledger_bot/internal/domain/teacher"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const lessonFormatExample = "Отправляйте сообщения с ФИО учеников для записи занятий.\nФормат: Фамилия Имя Класс Предмет / примечания\nПример: Петров Петр 5 математика / хорошо подготовился"

// Registration dialogue steps.
const (
	stepFullName = iota
	stepPhone
	stepSubject
	stepClasses
)

var classGroups = []string{"начальные", "средние", "старшие"}

// registrationState tracks one user's progress through the registration
// dialogue. State is in-memory only: a restart simply re-asks from the
// beginning.
type registrationState struct {
	step     int
	fullName string
	phone    string
	subject  string
}

type dialogues struct {
	mu     sync.Mutex
	states map[int64]*registrationState
}

func newDialogues() *dialogues {
	return &dialogues{states: make(map[int64]*registrationState)}
}

func (d *dialogues) get(userID int64) (*registrationState, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	st, ok := d.states[userID]
	return st, ok
}

func (d *dialogues) begin(userID int64) *registrationState {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := &registrationState{step: stepFullName}
	d.states[userID] = st
	return st
}

func (d *dialogues) end(userID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.states, userID)
}

func classGroupKeyboard() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	rows := make([]telebot.Row, 0, len(classGroups))
	for _, g := range classGroups {
		rows = append(rows, markup.Row(markup.Text(g)))
	}
	markup.Reply(rows...)
	return markup
}

func removeKeyboard() *telebot.SendOptions {
	return &telebot.SendOptions{ReplyMarkup: &telebot.ReplyMarkup{RemoveKeyboard: true}}
}

// RegisterHandlers wires the bot's message handlers: the /start and
// /cancel commands, the registration dialogue for unknown users and
// lesson recording for registered teachers. The bot only reacts inside
// the authorized chat.
func RegisterHandlers(
	ctx context.Context,
	b *telebot.Bot,
	regService *app.RegistrationService,
	lessonService *app.LessonService,
	authorizedChatID int64,
	baseLogger *logrus.Entry,
) {
	reg := newDialogues()

	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := baseLogger.WithField("command", "/start").WithField("sender_id", senderID)

		if c.Chat().ID != authorizedChatID {
			logCtx.WithField("chat_id", c.Chat().ID).Warn("Message from unauthorized chat")
			return c.Send("Бот работает только в авторизованном чате.")
		}

		name, err := regService.ProfileNameFor(ctx, senderID)
		if err == nil {
			logCtx.WithField("teacher", name).Info("Registered teacher greeted")
			return c.Send(fmt.Sprintf("Привет, %s!\n\n%s", name, lessonFormatExample))
		}

		logCtx.Info("Unregistered user, starting registration dialogue")
		reg.begin(senderID)
		return c.Send("👋 Добро пожаловать!\n\nВы не зарегистрированы в системе. Для начала работы необходимо пройти регистрацию.\n\nВведите ваше ФИО полностью (например: Иванов Иван Иванович):")
	})

	b.Handle("/cancel", func(c telebot.Context) error {
		if c.Chat().ID != authorizedChatID {
			return nil
		}
		reg.end(c.Sender().ID)
		return c.Send("Регистрация отменена. Отправьте любое сообщение для повторной регистрации.", removeKeyboard())
	})

	b.Handle(telebot.OnText, func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := baseLogger.WithField("sender_id", senderID)

		if c.Chat().ID != authorizedChatID {
			logCtx.WithField("chat_id", c.Chat().ID).Warn("Message from unauthorized chat")
			return nil
		}

		if st, ok := reg.get(senderID); ok {
			return advanceRegistration(ctx, c, reg, st, regService, logCtx)
		}

		registered, err := regService.IsRegistered(ctx, senderID)
		if err != nil {
			logCtx.WithError(err).Error("Failed to check registration")
			return c.Send("Произошла ошибка при проверке вашего статуса. Пожалуйста, попробуйте позже.")
		}
		if !registered {
			logCtx.Info("Unregistered user, starting registration dialogue")
			reg.begin(senderID)
			return c.Send("👋 Добро пожаловать!\n\nВы не зарегистрированы в системе. Для начала работы необходимо пройти регистрацию.\n\nВведите ваше ФИО полностью (например: Иванов Иван Иванович):")
		}

		teacherName, err := regService.ProfileNameFor(ctx, senderID)
		if err != nil {
			logCtx.WithError(err).Error("Failed to resolve teacher name")
			return c.Send("Ошибка: не удалось найти данные преподавателя.")
		}

		logCtx.WithField("teacher", teacherName).Info("Processing lesson message")
		return c.Send(lessonService.ProcessLessonMessage(ctx, teacherName, c.Text()))
	})
}

// advanceRegistration handles one answer of the registration dialogue
// and moves the user to the next step.
func advanceRegistration(
	ctx context.Context,
	c telebot.Context,
	reg *dialogues,
	st *registrationState,
	regService *app.RegistrationService,
	logCtx *logrus.Entry,
) error {
	text := strings.TrimSpace(c.Text())

	switch st.step {
	case stepFullName:
		if utf8.RuneCountInString(text) < 5 {
			return c.Send("ФИО должно содержать минимум 5 символов. Попробуйте еще раз:")
		}
		st.fullName = text
		st.step = stepPhone
		return c.Send("Введите ваш номер телефона (например: +79991234567):")

	case stepPhone:
		if !strings.HasPrefix(text, "+") || utf8.RuneCountInString(text) < 10 {
			return c.Send("Номер телефона должен начинаться с + и содержать минимум 10 цифр. Попробуйте еще раз:")
		}
		st.phone = text
		st.step = stepSubject
		return c.Send("Введите предмет, который вы ведёте (например: Математика):")

	case stepSubject:
		st.subject = text
		st.step = stepClasses
		return c.Send("Выберите классы, которые вы ведёте:", classGroupKeyboard())

	case stepClasses:
		valid := false
		for _, g := range classGroups {
			if text == g {
				valid = true
				break
			}
		}
		if !valid {
			return c.Send("Пожалуйста, выберите один из предложенных вариантов классов:", classGroupKeyboard())
		}

		profile := &teacher.Profile{
			FullName:   st.fullName,
			Phone:      st.phone,
			TelegramID: c.Sender().ID,
			Username:   c.Sender().Username,
			Subject:    st.subject,
			ClassGroup: text,
		}
		if err := regService.Register(ctx, profile); err != nil {
			logCtx.WithError(err).Error("Registration failed")
			reg.end(c.Sender().ID)
			if err == app.ErrAlreadyRegistered {
				return c.Send("Вы уже зарегистрированы в системе.", removeKeyboard())
			}
			return c.Send("Ошибка при регистрации. Попробуйте еще раз или обратитесь к администратору.", removeKeyboard())
		}

		logCtx.WithField("teacher", profile.FullName).Info("Registration completed")
		reg.end(c.Sender().ID)
		return c.Send(fmt.Sprintf("Регистрация завершена! Добро пожаловать, %s!\n\n%s", profile.FullName, lessonFormatExample), removeKeyboard())
	}

	// Unknown step: drop the broken dialogue and start over on the next message.
	reg.end(c.Sender().ID)
	return c.Send("Произошла ошибка. Отправьте любое сообщение для повторной регистрации.")
}
