// Package orderrepo persists the Order aggregate: the orders row, its tags,
// its deliveries with their files and the append-only event trail.
package orderrepo

import (
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the orders row. The pending request is flattened into the
// request_* columns; request_message doubles as the retained revision
// instructions when no request is pending.
type OrderDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID  `gorm:"type:uuid;index;not null"`
	PackageID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	Details       string     `gorm:"type:text;not null"`
	DueDate       *time.Time `gorm:"index"`
	Status        string     `gorm:"size:32;index;not null"`
	Response      string     `gorm:"type:text"`
	DeliveredFile string     `gorm:"size:255"`
	Rating        *int
	ReviewText    string `gorm:"type:text"`
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	CreatedAt     time.Time `gorm:"index;not null"`

	RequestType          *string `gorm:"size:32"`
	RequestMessage       string  `gorm:"type:text"`
	CancellationReason   string  `gorm:"size:255"`
	CancellationMessage  string  `gorm:"type:text"`
	ExtensionDays        int
	ExtensionReason      string `gorm:"type:text"`
	RequestRaisedByAdmin bool

	Version int `gorm:"not null;default:0"`

	Tags       []TagDTO      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Deliveries []DeliveryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type TagDTO struct {
	OrderID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position int       `gorm:"primaryKey;autoIncrement:false"`
	Name     string    `gorm:"size:255;not null"`
	Mood     string    `gorm:"size:255"`
}

func (TagDTO) TableName() string {
	return "order_tags"
}

type DeliveryDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_delivery_order_number;not null"`
	Number       int       `gorm:"uniqueIndex:idx_delivery_order_number;not null"`
	ResponseText string    `gorm:"type:text"`
	DeliveredAt  time.Time `gorm:"index;not null"`
	AdminID      uuid.UUID `gorm:"type:uuid;not null"`

	Files []DeliveryFileDTO `gorm:"foreignKey:DeliveryID;constraint:OnDelete:CASCADE"`
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

type DeliveryFileDTO struct {
	DeliveryID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position         int       `gorm:"primaryKey;autoIncrement:false"`
	Filename         string    `gorm:"size:255;not null"`
	OriginalFilename string    `gorm:"size:255"`
	Size             int64
	UploadedAt       time.Time
}

func (DeliveryFileDTO) TableName() string {
	return "delivery_files"
}

type EventDTO struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID             uuid.UUID  `gorm:"type:uuid;index;not null"`
	Type                string     `gorm:"size:64;not null"`
	ActorID             *uuid.UUID `gorm:"type:uuid"`
	Message             string     `gorm:"type:text"`
	CancellationReason  string     `gorm:"size:255"`
	CancellationMessage string     `gorm:"type:text"`
	ExtensionDays       int
	ExtensionReason     string    `gorm:"type:text"`
	CreatedAt           time.Time `gorm:"index;not null"`
}

func (EventDTO) TableName() string {
	return "order_events"
}

// fromDomain maps the order row and its tags. Deliveries and events are
// written separately from the uncommitted lists.
func fromDomain(o *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:            o.ID().Bytes(),
		UserID:        o.UserID().Bytes(),
		PackageID:     o.PackageID().Bytes(),
		Details:       o.Details(),
		DueDate:       utcPtr(o.DueDate()),
		Status:        o.Status().String(),
		Response:      o.Response(),
		DeliveredFile: o.DeliveredFile(),
		CompletedAt:   utcPtr(o.CompletedAt()),
		CancelledAt:   utcPtr(o.CancelledAt()),
		CreatedAt:     o.CreatedAt().UTC(),
		Version:       o.Version(),
	}

	if r := o.Review(); r != nil {
		rating := r.Rating()
		dto.Rating = &rating
		dto.ReviewText = r.Text()
	}

	if p := o.PendingRequest(); p != nil {
		kind := p.Kind().String()
		dto.RequestType = &kind
		dto.RequestMessage = p.Message()
		dto.CancellationReason = p.CancellationReason()
		dto.CancellationMessage = p.CancellationMessage()
		dto.ExtensionDays = p.ExtensionDays()
		dto.ExtensionReason = p.ExtensionReason()
		dto.RequestRaisedByAdmin = p.RaisedByAdmin()
	} else {
		dto.RequestMessage = o.RevisionInstructions()
	}

	for i, t := range o.Tags() {
		dto.Tags = append(dto.Tags, TagDTO{OrderID: dto.ID, Position: i, Name: t.Name(), Mood: t.Mood()})
	}

	return dto
}

func deliveryFromDomain(d *order.Delivery) DeliveryDTO {
	dto := DeliveryDTO{
		ID:           d.ID().Bytes(),
		OrderID:      d.OrderID().Bytes(),
		Number:       d.Number(),
		ResponseText: d.ResponseText(),
		DeliveredAt:  d.DeliveredAt().UTC(),
		AdminID:      d.AdminID().Bytes(),
	}
	for i, f := range d.Files() {
		dto.Files = append(dto.Files, DeliveryFileDTO{
			DeliveryID:       dto.ID,
			Position:         i,
			Filename:         f.Filename(),
			OriginalFilename: f.OriginalFilename(),
			Size:             f.Size(),
			UploadedAt:       f.UploadedAt().UTC(),
		})
	}
	return dto
}

func eventFromDomain(e *order.Event) EventDTO {
	dto := EventDTO{
		ID:                  e.ID().Bytes(),
		OrderID:             e.OrderID().Bytes(),
		Type:                string(e.Type()),
		Message:             e.Message(),
		CancellationReason:  e.CancellationReason(),
		CancellationMessage: e.CancellationMessage(),
		ExtensionDays:       e.ExtensionDays(),
		ExtensionReason:     e.ExtensionReason(),
		CreatedAt:           e.CreatedAt().UTC(),
	}
	if actor := e.ActorID(); actor != nil {
		raw := actor.Bytes()
		dto.ActorID = &raw
	}
	return dto
}

// toDomain rebuilds the aggregate through RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	packageID, err := kernel.UUIDFromBytes(dto.PackageID[:])
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	state := order.State{
		ID:            id,
		UserID:        userID,
		PackageID:     packageID,
		Details:       dto.Details,
		CreatedAt:     dto.CreatedAt,
		DueDate:       dto.DueDate,
		Status:        status,
		Response:      dto.Response,
		DeliveredFile: dto.DeliveredFile,
		CompletedAt:   dto.CompletedAt,
		CancelledAt:   dto.CancelledAt,
		Version:       dto.Version,
	}

	for _, t := range dto.Tags {
		tag, tagErr := order.NewTag(t.Name, t.Mood)
		if tagErr != nil {
			return nil, tagErr
		}
		state.Tags = append(state.Tags, tag)
	}

	if dto.Rating != nil {
		review, reviewErr := order.NewReview(*dto.Rating, dto.ReviewText)
		if reviewErr != nil {
			return nil, reviewErr
		}
		state.Review = &review
	}

	if dto.RequestType != nil {
		kind, kindErr := order.ParseRequestKind(*dto.RequestType)
		if kindErr != nil {
			return nil, kindErr
		}
		pending, pendingErr := order.RestorePendingRequest(
			kind,
			dto.RequestMessage,
			dto.CancellationReason,
			dto.CancellationMessage,
			dto.ExtensionDays,
			dto.ExtensionReason,
			dto.RequestRaisedByAdmin,
		)
		if pendingErr != nil {
			return nil, pendingErr
		}
		state.Pending = &pending
	} else {
		state.RevisionInstructions = dto.RequestMessage
	}

	for _, d := range dto.Deliveries {
		delivery, deliveryErr := deliveryToDomain(d)
		if deliveryErr != nil {
			return nil, deliveryErr
		}
		state.Deliveries = append(state.Deliveries, delivery)
	}

	return order.RestoreOrder(state)
}

func deliveryToDomain(dto DeliveryDTO) (*order.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	adminID, err := kernel.UUIDFromBytes(dto.AdminID[:])
	if err != nil {
		return nil, err
	}

	files := make([]order.DeliveryFile, 0, len(dto.Files))
	for _, f := range dto.Files {
		file, fileErr := order.NewDeliveryFile(f.Filename, f.OriginalFilename, f.Size, f.UploadedAt)
		if fileErr != nil {
			return nil, fileErr
		}
		files = append(files, file)
	}

	return order.RestoreDelivery(id, orderID, dto.Number, dto.ResponseText, dto.DeliveredAt, adminID, files)
}

func eventToDomain(dto EventDTO) (*order.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var actorID *kernel.UUID
	if dto.ActorID != nil {
		actor, actorErr := kernel.UUIDFromBytes((*dto.ActorID)[:])
		if actorErr != nil {
			return nil, actorErr
		}
		actorID = &actor
	}

	return order.RestoreEvent(
		id,
		orderID,
		order.EventType(dto.Type),
		actorID,
		dto.Message,
		dto.CancellationReason,
		dto.CancellationMessage,
		dto.ExtensionDays,
		dto.ExtensionReason,
		dto.CreatedAt,
	), nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
