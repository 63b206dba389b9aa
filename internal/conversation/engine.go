// Package conversation ведёт диалог записи на занятие: анкета, способы
// связи, выбор даты и времени, бронирование слота или заявка в ожидание.
package conversation

import (
	"context"
	"errors"
	"strings"

	"github.com/Freeeeeet/lesson_booking_bot/internal/model"
	"github.com/Freeeeeet/lesson_booking_bot/internal/repository"
	"github.com/Freeeeeet/lesson_booking_bot/internal/service"
	"github.com/Freeeeeet/lesson_booking_bot/internal/session"
	"github.com/Freeeeeet/lesson_booking_bot/internal/validate"
	"go.uber.org/zap"
)

type Engine struct {
	bookings *service.BookingService
	sessions session.Store
	logger   *zap.Logger
	locks    *chatLocks
}

func NewEngine(bookings *service.BookingService, sessions session.Store, logger *zap.Logger) *Engine {
	return &Engine{
		bookings: bookings,
		sessions: sessions,
		logger:   logger,
		locks:    newChatLocks(),
	}
}

// Start обрабатывает /start: сбрасывает текущую запись и показывает меню
func (e *Engine) Start(ctx context.Context, ev Event) []Reply {
	unlock := e.locks.lock(ev.ChatID)
	defer unlock()

	if err := e.sessions.Delete(ctx, ev.ChatID); err != nil {
		e.logger.Error("Failed to reset session", zap.Int64("chat_id", ev.ChatID), zap.Error(err))
	}
	return []Reply{welcomeReply()}
}

// Cancel обрабатывает /cancel
func (e *Engine) Cancel(ctx context.Context, ev Event) []Reply {
	unlock := e.locks.lock(ev.ChatID)
	defer unlock()

	// Ошибка чтения не мешает отмене: сессию всё равно удаляем
	s, err := e.sessions.Get(ctx, ev.ChatID)
	if err != nil {
		e.logger.Error("Failed to load session", zap.Int64("chat_id", ev.ChatID), zap.Error(err))
	}
	if err == nil && s == nil {
		return []Reply{keyboardReply(msgNoActive, startKeyboard())}
	}

	if err := e.sessions.Delete(ctx, ev.ChatID); err != nil {
		e.logger.Error("Failed to delete session", zap.Int64("chat_id", ev.ChatID), zap.Error(err))
		return []Reply{keyboardReply(msgInternalError, startKeyboard())}
	}

	state := session.State("unknown")
	if s != nil {
		state = s.State
	}
	e.logger.Info("Booking cancelled", zap.Int64("chat_id", ev.ChatID), zap.String("state", string(state)))
	return []Reply{keyboardReply(msgCancelled, startKeyboard())}
}

// Handle обрабатывает текстовое сообщение. Всегда возвращает хотя бы один ответ
func (e *Engine) Handle(ctx context.Context, ev Event) []Reply {
	unlock := e.locks.lock(ev.ChatID)
	defer unlock()

	log := e.logger.With(zap.Int64("chat_id", ev.ChatID))

	s, err := e.sessions.Get(ctx, ev.ChatID)
	if err != nil {
		log.Error("Failed to load session", zap.Error(err))
		return []Reply{keyboardReply(msgInternalError, startKeyboard())}
	}
	if s == nil || s.Record == nil {
		s = &session.Session{ChatID: ev.ChatID, State: session.StateStart}
	}

	text := strings.TrimSpace(ev.Text)
	intent := Decode(s.State, text)
	log.Debug("Processing message",
		zap.String("state", string(s.State)),
		zap.Stringer("intent", intent))

	replies := e.step(ctx, log, s, ev, intent, text)

	if err := e.sessions.Save(ctx, s); err != nil {
		log.Error("Failed to save session", zap.String("state", string(s.State)), zap.Error(err))
		if err := e.sessions.Delete(ctx, ev.ChatID); err != nil {
			log.Error("Failed to reset session", zap.Error(err))
		}
		return []Reply{keyboardReply(msgInternalError, startKeyboard())}
	}
	return replies
}

func (e *Engine) step(ctx context.Context, log *zap.Logger, s *session.Session, ev Event, intent Intent, text string) []Reply {
	switch s.State {
	case session.StateStart:
		return e.handleStart(log, s, ev, intent)
	case session.StateName:
		return e.handleName(s, intent, text)
	case session.StateClass:
		return e.handleClass(s, intent, text)
	case session.StateSubject:
		return e.handleSubject(s, intent, text)
	case session.StateTopic:
		return e.handleTopic(s, intent, text)
	case session.StateContact:
		return e.handleContact(ctx, log, s, intent)
	case session.StatePhone:
		return e.handlePhone(s, intent, text)
	case session.StateEmail:
		return e.handleEmail(s, intent, text)
	case session.StateDateSelect:
		return e.handleDate(ctx, log, s, intent, text)
	case session.StateTimeSelect:
		return e.handleTime(ctx, log, s, ev, intent, text)
	case session.StateLeaveRequest:
		return e.handleLeaveRequest(ctx, log, s, ev, intent)
	}

	log.Warn("Unknown session state, resetting", zap.String("state", string(s.State)))
	s.State = session.StateStart
	return []Reply{welcomeReply()}
}

func (e *Engine) handleStart(log *zap.Logger, s *session.Session, ev Event, intent Intent) []Reply {
	if intent != IntentBegin {
		return []Reply{welcomeReply()}
	}

	*s = *session.New(ev.ChatID, model.NewBookingRecord(ev.From.FirstName, ev.From.LastName, ev.From.Username))
	log.Info("Booking started", zap.String("username", ev.From.Username))
	return []Reply{removeKeyboardReply(msgAskName)}
}

func (e *Engine) handleName(s *session.Session, intent Intent, text string) []Reply {
	if intent != IntentText {
		return []Reply{removeKeyboardReply(msgAskName)}
	}
	s.Record.Name = text
	s.State = session.StateClass
	return []Reply{keyboardReply(msgAskClass, choicesKeyboard(classChoices))}
}

func (e *Engine) handleClass(s *session.Session, intent Intent, text string) []Reply {
	if intent != IntentText {
		return []Reply{keyboardReply(msgAskClass, choicesKeyboard(classChoices))}
	}
	s.Record.Class = text
	s.State = session.StateSubject
	return []Reply{keyboardReply(msgAskSubject, choicesKeyboard(subjectChoices))}
}

func (e *Engine) handleSubject(s *session.Session, intent Intent, text string) []Reply {
	if intent != IntentText {
		return []Reply{keyboardReply(msgAskSubject, choicesKeyboard(subjectChoices))}
	}
	s.Record.Subject = text
	s.State = session.StateTopic
	return []Reply{removeKeyboardReply(msgAskTopic)}
}

func (e *Engine) handleTopic(s *session.Session, intent Intent, text string) []Reply {
	if intent != IntentText {
		return []Reply{removeKeyboardReply(msgAskTopic)}
	}
	s.Record.Topic = text
	s.State = session.StateContact
	return []Reply{keyboardReply(msgAskContact, contactKeyboard())}
}

func (e *Engine) handleContact(ctx context.Context, log *zap.Logger, s *session.Session, intent Intent) []Reply {
	switch intent {
	case IntentTelegram:
		contact := s.Record.TelegramContact()
		s.Record.SetContact(model.ContactTelegram, contact)
		return []Reply{keyboardReply("Добавлено Telegram: "+contact, contactKeyboard())}

	case IntentPhone:
		s.State = session.StatePhone
		return []Reply{keyboardReply(msgAskPhone, skipKeyboard())}

	case IntentEmail:
		s.State = session.StateEmail
		return []Reply{keyboardReply(msgAskEmail, skipKeyboard())}

	case IntentDone:
		return e.offerDates(ctx, log, s, msgAskDate)
	}

	return []Reply{keyboardReply(msgUseKeyboard, contactKeyboard())}
}

func (e *Engine) handlePhone(s *session.Session, intent Intent, text string) []Reply {
	switch intent {
	case IntentSkip:
		s.State = session.StateContact
		return []Reply{keyboardReply(msgNoPhone, contactKeyboard())}

	case IntentText:
		phone, err := validate.NormalizePhone(text)
		if err != nil {
			return []Reply{keyboardReply(msgBadPhone, skipKeyboard())}
		}
		s.Record.SetContact(model.ContactPhone, phone)
		s.State = session.StateContact
		return []Reply{keyboardReply("Добавлено Телефон: "+phone+"\nДругой способ или «Готово»?", contactKeyboard())}
	}

	return []Reply{keyboardReply(msgAskPhone, skipKeyboard())}
}

func (e *Engine) handleEmail(s *session.Session, intent Intent, text string) []Reply {
	switch intent {
	case IntentSkip:
		s.State = session.StateContact
		return []Reply{keyboardReply(msgNoEmail, contactKeyboard())}

	case IntentText:
		email, err := validate.NormalizeEmail(text)
		if err != nil {
			return []Reply{keyboardReply(msgBadEmail, skipKeyboard())}
		}
		s.Record.SetContact(model.ContactEmail, email)
		s.State = session.StateContact
		return []Reply{keyboardReply("Добавлено Email: "+email+"\nДругой способ или «Готово»?", contactKeyboard())}
	}

	return []Reply{keyboardReply(msgAskEmail, skipKeyboard())}
}

func (e *Engine) handleDate(ctx context.Context, log *zap.Logger, s *session.Session, intent Intent, text string) []Reply {
	if intent != IntentText {
		return e.offerDates(ctx, log, s, msgAskDate)
	}

	times, err := e.bookings.FreeTimes(ctx, text)
	if errors.Is(err, repository.ErrSlotNotFound) {
		return e.offerDates(ctx, log, s, msgUnknownDate)
	}
	if err != nil {
		return e.fail(log, s, err)
	}

	s.SelectedDate = text
	return e.offerTimes(log, s, times, msgAskTime)
}

// handleTime бронирует выбранное время
func (e *Engine) handleTime(ctx context.Context, log *zap.Logger, s *session.Session, ev Event, intent Intent, text string) []Reply {
	date := s.SelectedDate

	if intent != IntentText {
		return e.retryTimes(ctx, log, s, msgAskTime)
	}

	err := e.bookings.BookSlot(ctx, ev.ChatID, date, text, s.Record)
	switch {
	case errors.Is(err, service.ErrUnknownTime):
		return e.retryTimes(ctx, log, s, msgUnknownTime)
	case errors.Is(err, repository.ErrSlotTaken):
		return append([]Reply{textReply(msgSlotTaken)}, e.retryTimes(ctx, log, s, msgAskTime)...)
	case err != nil:
		return e.fail(log, s, err)
	}

	replies := []Reply{removeKeyboardReply(summary(s.Record)), restartReply()}
	s.State = session.StateStart
	return replies
}

func (e *Engine) handleLeaveRequest(ctx context.Context, log *zap.Logger, s *session.Session, ev Event, intent Intent) []Reply {
	s.State = session.StateStart

	if intent != IntentYes {
		log.Info("Pending request declined")
		return []Reply{restartReply()}
	}

	// Заявка показывается пользователю даже если журнал недоступен
	if err := e.bookings.SubmitPendingRequest(ctx, ev.ChatID, s.SelectedDate, s.Record); err != nil {
		log.Warn("Failed to save pending request", zap.Error(err))
	}

	return []Reply{
		removeKeyboardReply(msgRequestSaved),
		textReply(summary(s.Record)),
		restartReply(),
	}
}

// offerDates показывает доступные даты. Без дат сразу предлагает заявку
func (e *Engine) offerDates(ctx context.Context, log *zap.Logger, s *session.Session, prompt string) []Reply {
	dates, err := e.bookings.Dates(ctx)
	if err != nil {
		return e.fail(log, s, err)
	}

	s.SelectedDate = ""
	if len(dates) == 0 {
		s.State = session.StateLeaveRequest
		return []Reply{keyboardReply(msgNoSlots, yesNoKeyboard())}
	}

	s.State = session.StateDateSelect
	return []Reply{keyboardReply(prompt, choicesKeyboard(column(dates)))}
}

// retryTimes перечитывает свободное время на s.SelectedDate
func (e *Engine) retryTimes(ctx context.Context, log *zap.Logger, s *session.Session, prompt string) []Reply {
	times, err := e.bookings.FreeTimes(ctx, s.SelectedDate)
	if err != nil {
		return e.fail(log, s, err)
	}
	return e.offerTimes(log, s, times, prompt)
}

// offerTimes показывает свободное время. Если его нет - предлагает заявку
func (e *Engine) offerTimes(log *zap.Logger, s *session.Session, times []string, prompt string) []Reply {
	if len(times) == 0 {
		log.Info("No free slots", zap.String("date", s.SelectedDate))
		s.State = session.StateLeaveRequest
		return []Reply{keyboardReply(msgNoSlots, yesNoKeyboard())}
	}

	s.State = session.StateTimeSelect
	return []Reply{keyboardReply(prompt, choicesKeyboard(column(times)))}
}

// fail завершает диалог после ошибки хранилища
func (e *Engine) fail(log *zap.Logger, s *session.Session, err error) []Reply {
	log.Error("Slot storage failed",
		zap.String("state", string(s.State)),
		zap.Error(err))
	s.State = session.StateStart
	return []Reply{keyboardReply(errorMessage(err), startKeyboard())}
}
