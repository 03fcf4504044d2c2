package order

import (
	"fmt"
	"strings"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/pkg/errs"
)

// DeliveryFile is one stored asset of a delivery.
type DeliveryFile struct {
	filename         string
	originalFilename string
	size             int64
	uploadedAt       time.Time
}

// NewDeliveryFile describes a file already written to storage under filename.
func NewDeliveryFile(filename, originalFilename string, size int64, uploadedAt time.Time) (DeliveryFile, error) {
	if strings.TrimSpace(filename) == "" {
		return DeliveryFile{}, errs.NewValueIsRequiredError("filename")
	}
	if size < 0 {
		return DeliveryFile{}, errs.NewValueIsInvalidErrorWithCause("file size", fmt.Errorf("%d is negative", size))
	}
	if originalFilename == "" {
		originalFilename = filename
	}
	return DeliveryFile{
		filename:         filename,
		originalFilename: originalFilename,
		size:             size,
		uploadedAt:       uploadedAt,
	}, nil
}

func (f DeliveryFile) Filename() string         { return f.filename }
func (f DeliveryFile) OriginalFilename() string { return f.originalFilename }
func (f DeliveryFile) Size() int64              { return f.size }
func (f DeliveryFile) UploadedAt() time.Time    { return f.uploadedAt }

// Delivery is one admin fulfillment attempt. Numbers start at 1 and grow by
// one per delivery of the same order; a revision cycle produces a new
// Delivery rather than changing an old one.
type Delivery struct {
	id           kernel.UUID
	orderID      kernel.UUID
	number       int
	responseText string
	deliveredAt  time.Time
	adminID      kernel.UUID
	files        []DeliveryFile
}

// RestoreDelivery rebuilds a persisted delivery.
func RestoreDelivery(
	id, orderID kernel.UUID,
	number int,
	responseText string,
	deliveredAt time.Time,
	adminID kernel.UUID,
	files []DeliveryFile,
) (*Delivery, error) {
	if number < 1 {
		return nil, errs.NewValueIsInvalidErrorWithCause("delivery number", fmt.Errorf("%d is not greater than 0", number))
	}
	return &Delivery{
		id:           id,
		orderID:      orderID,
		number:       number,
		responseText: responseText,
		deliveredAt:  deliveredAt,
		adminID:      adminID,
		files:        append([]DeliveryFile(nil), files...),
	}, nil
}

func (d *Delivery) ID() kernel.UUID        { return d.id }
func (d *Delivery) OrderID() kernel.UUID   { return d.orderID }
func (d *Delivery) Number() int            { return d.number }
func (d *Delivery) ResponseText() string   { return d.responseText }
func (d *Delivery) DeliveredAt() time.Time { return d.deliveredAt }
func (d *Delivery) AdminID() kernel.UUID   { return d.adminID }

// Files returns a copy of the delivered files.
func (d *Delivery) Files() []DeliveryFile {
	return append([]DeliveryFile(nil), d.files...)
}
