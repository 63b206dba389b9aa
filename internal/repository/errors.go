// Package repository описывает таблицу слотов, в которую бот записывает
// заявки. Каждый лист - одна дата, каждая строка - один слот.
package repository

import "errors"

// ErrUnavailable хранилище недоступно: сеть, авторизация, таймаут.
// Для диалога это всегда фатальная ошибка
var ErrUnavailable = errors.New("slot repository unavailable")

// ErrSlotTaken строка уже не в статусе available на момент записи
var ErrSlotTaken = errors.New("slot already booked")

// ErrSlotNotFound нет листа или строки с таким номером
var ErrSlotNotFound = errors.New("slot not found")
