package commands

import (
	"errors"
	"strings"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/pkg/errs"
	"tagging/internal/pkg/guard"
)

var (
	ErrSendMessageCommandIsNotConstructed = errors.New(
		"SendMessageCommand must be created via NewSendMessageCommand constructor",
	)
	ErrReadOrderMessagesCommandIsNotConstructed = errors.New(
		"ReadOrderMessagesCommand must be created via NewReadOrderMessagesCommand constructor",
	)
	ErrMarkNotificationReadCommandIsNotConstructed = errors.New(
		"MarkNotificationReadCommand must be created via NewMarkNotificationReadCommand constructor",
	)
	ErrMarkAllReadCommandIsNotConstructed = errors.New(
		"MarkAllReadCommand must be created via NewMarkAllReadCommand constructor",
	)
)

// SendMessageCommand posts to the chat of an order.
type SendMessageCommand struct {
	actor   order.Actor
	orderID kernel.UUID
	text    string

	guard guard.ConstructorGuard
}

func NewSendMessageCommand(actor order.Actor, orderID kernel.UUID, text string) (SendMessageCommand, error) {
	var errList []error
	if err := validateActor(actor); err != nil {
		errList = append(errList, err)
	}
	if err := orderID.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("order", err))
	}
	text = strings.TrimSpace(text)
	if text == "" {
		errList = append(errList, errs.NewValueIsRequiredError("message"))
	}
	if len(errList) > 0 {
		return SendMessageCommand{}, errors.Join(errList...)
	}

	return SendMessageCommand{actor: actor, orderID: orderID, text: text, guard: guard.NewConstructorGuard()}, nil
}

func (c SendMessageCommand) Validate() error {
	return c.guard.Validate(ErrSendMessageCommandIsNotConstructed)
}

func (c SendMessageCommand) Actor() order.Actor   { return c.actor }
func (c SendMessageCommand) OrderID() kernel.UUID { return c.orderID }
func (c SendMessageCommand) Text() string         { return c.text }

// ReadOrderMessagesCommand marks the other party's messages on an order as read.
type ReadOrderMessagesCommand struct {
	actor   order.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewReadOrderMessagesCommand(actor order.Actor, orderID kernel.UUID) (ReadOrderMessagesCommand, error) {
	actor, orderID, err := resolutionTarget(actor, orderID)
	if err != nil {
		return ReadOrderMessagesCommand{}, err
	}
	return ReadOrderMessagesCommand{actor: actor, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c ReadOrderMessagesCommand) Validate() error {
	return c.guard.Validate(ErrReadOrderMessagesCommandIsNotConstructed)
}

func (c ReadOrderMessagesCommand) Actor() order.Actor   { return c.actor }
func (c ReadOrderMessagesCommand) OrderID() kernel.UUID { return c.orderID }

type MarkNotificationReadCommand struct {
	actor          order.Actor
	notificationID kernel.UUID

	guard guard.ConstructorGuard
}

func NewMarkNotificationReadCommand(actor order.Actor, notificationID kernel.UUID) (MarkNotificationReadCommand, error) {
	var idErr error
	if err := notificationID.Validate(); err != nil {
		idErr = errs.NewValueIsRequiredErrorWithCause("notification", err)
	}
	if err := errors.Join(validateActor(actor), idErr); err != nil {
		return MarkNotificationReadCommand{}, err
	}
	return MarkNotificationReadCommand{actor: actor, notificationID: notificationID, guard: guard.NewConstructorGuard()}, nil
}

func (c MarkNotificationReadCommand) Validate() error {
	return c.guard.Validate(ErrMarkNotificationReadCommandIsNotConstructed)
}

func (c MarkNotificationReadCommand) Actor() order.Actor          { return c.actor }
func (c MarkNotificationReadCommand) NotificationID() kernel.UUID { return c.notificationID }

// MarkAllReadCommand clears the unread notifications or chat messages of the actor.
type MarkAllReadCommand struct {
	actor order.Actor

	guard guard.ConstructorGuard
}

func NewMarkAllReadCommand(actor order.Actor) (MarkAllReadCommand, error) {
	if err := validateActor(actor); err != nil {
		return MarkAllReadCommand{}, err
	}
	return MarkAllReadCommand{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (c MarkAllReadCommand) Validate() error {
	return c.guard.Validate(ErrMarkAllReadCommandIsNotConstructed)
}

func (c MarkAllReadCommand) Actor() order.Actor { return c.actor }
