package http

import (
	"time"

	"tagging/internal/core/application/usecases/queries"
	"tagging/internal/core/domain/model/message"
	"tagging/internal/core/domain/model/notification"
	"tagging/internal/core/domain/model/order"
	"tagging/internal/core/domain/model/user"
	"tagging/internal/core/domain/services"
)

type (
	RegisterRequest struct {
		Username string `json:"username" validate:"required,min=3,max=50"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	TagRequest struct {
		Name string `json:"name" validate:"required"`
		Mood string `json:"mood" validate:"required"`
	}

	CardRequest struct {
		Number string `json:"number" validate:"required"`
		Holder string `json:"holder" validate:"required"`
		Expiry string `json:"expiry" validate:"required"`
		CVV    string `json:"cvv" validate:"required"`
	}

	CreateOrderRequest struct {
		PackageID string       `json:"package_id" validate:"required,uuid"`
		Details   string       `json:"details" validate:"required"`
		Tags      []TagRequest `json:"tags" validate:"required,min=1,dive"`
		Card      CardRequest  `json:"card"`
	}

	ReviewRequest struct {
		Rating int    `json:"rating" validate:"required"`
		Text   string `json:"text"`
	}

	// ResolutionRequest raises a request; Type is one of cancellation,
	// extend_delivery, revision or dispute.
	ResolutionRequest struct {
		Type    string `json:"type" validate:"required,oneof=cancellation extend_delivery revision dispute"`
		Reason  string `json:"reason"`
		Message string `json:"message"`
		Days    int    `json:"days"`
	}

	RejectRequest struct {
		Message string `json:"message"`
	}

	MessageRequest struct {
		Text string `json:"text" validate:"required"`
	}

	PackageRequest struct {
		Name         string `json:"name" validate:"required"`
		Price        string `json:"price" validate:"required,numeric"`
		DeliveryDays int    `json:"delivery_days" validate:"required"`
		TagCount     int    `json:"tag_count" validate:"required"`
		Description  string `json:"description"`
	}
)

type (
	UserResponse struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		IsAdmin  bool   `json:"is_admin"`
	}

	LoginResponse struct {
		Token     string       `json:"token"`
		ExpiresAt time.Time    `json:"expires_at"`
		User      UserResponse `json:"user"`
	}

	CreatedResponse struct {
		ID string `json:"id"`
	}

	CountResponse struct {
		Count int64 `json:"count"`
	}

	PackageResponse struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Price        string `json:"price"`
		DeliveryDays int    `json:"delivery_days"`
		TagCount     int    `json:"tag_count"`
		Description  string `json:"description"`
	}

	OrderSummaryResponse struct {
		ID          string     `json:"id"`
		UserID      string     `json:"user_id"`
		Username    string     `json:"username"`
		PackageID   string     `json:"package_id"`
		PackageName string     `json:"package_name"`
		Price       string     `json:"price"`
		Status      string     `json:"status"`
		DueDate     *time.Time `json:"due_date"`
		CreatedAt   time.Time  `json:"created_at"`
		HasPending  bool       `json:"has_pending_request"`
	}

	TagResponse struct {
		Name string `json:"name"`
		Mood string `json:"mood"`
	}

	PendingRequestResponse struct {
		Type          string `json:"type"`
		RaisedByAdmin bool   `json:"raised_by_admin"`
		Message       string `json:"message,omitempty"`
		Reason        string `json:"reason,omitempty"`
		Days          int    `json:"days,omitempty"`
	}

	ReviewResponse struct {
		Rating int    `json:"rating"`
		Text   string `json:"text"`
	}

	FileResponse struct {
		Filename         string    `json:"filename"`
		OriginalFilename string    `json:"original_filename"`
		Size             int64     `json:"size"`
		UploadedAt       time.Time `json:"uploaded_at"`
	}

	DeliveryResponse struct {
		ID          string         `json:"id"`
		Number      int            `json:"number"`
		Response    string         `json:"response"`
		DeliveredAt time.Time      `json:"delivered_at"`
		Files       []FileResponse `json:"files"`
	}

	EventResponse struct {
		ID        string    `json:"id"`
		Type      string    `json:"type"`
		Message   string    `json:"message"`
		System    bool      `json:"system"`
		CreatedAt time.Time `json:"created_at"`
	}

	OrderResponse struct {
		ID                   string                  `json:"id"`
		UserID               string                  `json:"user_id"`
		PackageID            string                  `json:"package_id"`
		Package              *PackageResponse        `json:"package"`
		Details              string                  `json:"details"`
		Status               string                  `json:"status"`
		Tags                 []TagResponse           `json:"tags"`
		DueDate              *time.Time              `json:"due_date"`
		CreatedAt            time.Time               `json:"created_at"`
		CompletedAt          *time.Time              `json:"completed_at,omitempty"`
		CancelledAt          *time.Time              `json:"cancelled_at,omitempty"`
		Response             string                  `json:"response,omitempty"`
		RevisionInstructions string                  `json:"revision_instructions,omitempty"`
		PendingRequest       *PendingRequestResponse `json:"pending_request,omitempty"`
		Review               *ReviewResponse         `json:"review,omitempty"`
		Deliveries           []DeliveryResponse      `json:"deliveries"`
		Events               []EventResponse         `json:"events"`
	}

	TimelineEntryResponse struct {
		Kind     string            `json:"kind"`
		At       time.Time         `json:"at"`
		Delivery *DeliveryResponse `json:"delivery,omitempty"`
		Event    *EventResponse    `json:"event,omitempty"`
	}

	NotificationResponse struct {
		ID        string    `json:"id"`
		OrderID   *string   `json:"order_id"`
		Type      string    `json:"type"`
		Title     string    `json:"title"`
		Message   string    `json:"message"`
		IsRead    bool      `json:"is_read"`
		CreatedAt time.Time `json:"created_at"`
	}

	UnreadCountsResponse struct {
		Notifications int64 `json:"notifications"`
		Messages      int64 `json:"messages"`
	}

	MessageResponse struct {
		ID        string    `json:"id"`
		SenderID  string    `json:"sender_id"`
		Text      string    `json:"text"`
		IsRead    bool      `json:"is_read"`
		CreatedAt time.Time `json:"created_at"`
	}

	ChartBucketResponse struct {
		Label            string `json:"label"`
		Completed        int    `json:"completed"`
		Revenue          string `json:"revenue"`
		Cancelled        int    `json:"cancelled"`
		CancelledRevenue string `json:"cancelled_revenue"`
	}

	RecentReviewResponse struct {
		OrderID   string    `json:"order_id"`
		Username  string    `json:"username"`
		Rating    int       `json:"rating"`
		Text      string    `json:"text"`
		CreatedAt time.Time `json:"created_at"`
	}

	DashboardStatsResponse struct {
		Total            int     `json:"total"`
		Active           int     `json:"active"`
		Delivered        int     `json:"delivered"`
		Late             int     `json:"late"`
		Revision         int     `json:"revision"`
		InDispute        int     `json:"in_dispute"`
		Completed        int     `json:"completed"`
		Cancelled        int     `json:"cancelled"`
		AverageRating    float64 `json:"average_rating"`
		CompletionRate   float64 `json:"completion_rate"`
		CancellationRate float64 `json:"cancellation_rate"`
	}

	AnalyticsResponse struct {
		Stats            DashboardStatsResponse `json:"stats"`
		Revenue          string                 `json:"revenue"`
		CancelledRevenue string                 `json:"cancelled_revenue"`
		ExpectedEarnings string                 `json:"expected_earnings"`
		Chart            []ChartBucketResponse  `json:"chart"`
		RecentReviews    []RecentReviewResponse `json:"recent_reviews"`
	}
)

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{ID: u.ID().String(), Username: u.Username(), Email: u.Email(), IsAdmin: u.IsAdmin()}
}

func toPackageResponse(p queries.PackageView) PackageResponse {
	return PackageResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		Price:        p.Price.String(),
		DeliveryDays: p.DeliveryDays,
		TagCount:     p.TagCount,
		Description:  p.Description,
	}
}

func toOrderSummaryResponse(s queries.OrderSummary) OrderSummaryResponse {
	return OrderSummaryResponse{
		ID:          s.ID.String(),
		UserID:      s.UserID.String(),
		Username:    s.Username,
		PackageID:   s.PackageID.String(),
		PackageName: s.PackageName,
		Price:       s.Price.String(),
		Status:      s.Status.String(),
		DueDate:     s.DueDate,
		CreatedAt:   s.CreatedAt,
		HasPending:  s.HasPending,
	}
}

func toOrderResponse(r queries.GetOrderQueryResponse) OrderResponse {
	o := r.Order
	resp := OrderResponse{
		ID:                   o.ID().String(),
		UserID:               o.UserID().String(),
		PackageID:            o.PackageID().String(),
		Details:              o.Details(),
		Status:               o.Status().String(),
		DueDate:              o.DueDate(),
		CreatedAt:            o.CreatedAt(),
		CompletedAt:          o.CompletedAt(),
		CancelledAt:          o.CancelledAt(),
		Response:             o.Response(),
		RevisionInstructions: o.RevisionInstructions(),
		Tags:                 make([]TagResponse, 0, len(o.Tags())),
		Deliveries:           make([]DeliveryResponse, 0, len(o.Deliveries())),
		Events:               make([]EventResponse, 0, len(r.Events)),
	}

	if r.Package != nil {
		p := toPackageResponse(*r.Package)
		resp.Package = &p
	}
	for _, t := range o.Tags() {
		resp.Tags = append(resp.Tags, TagResponse{Name: t.Name(), Mood: t.Mood()})
	}
	if pending := o.PendingRequest(); pending != nil {
		resp.PendingRequest = toPendingRequestResponse(*pending)
	}
	if review := o.Review(); review != nil {
		resp.Review = &ReviewResponse{Rating: review.Rating(), Text: review.Text()}
	}
	for _, d := range o.Deliveries() {
		resp.Deliveries = append(resp.Deliveries, toDeliveryResponse(d))
	}
	for _, e := range r.Events {
		resp.Events = append(resp.Events, toEventResponse(e))
	}
	return resp
}

func toPendingRequestResponse(p order.PendingRequest) *PendingRequestResponse {
	resp := &PendingRequestResponse{
		Type:          p.Kind().String(),
		RaisedByAdmin: p.RaisedByAdmin(),
		Message:       p.Message(),
	}
	switch p.Kind() { //nolint:exhaustive // revision and dispute only carry a message
	case order.CancellationRequest:
		resp.Reason = p.CancellationReason()
		resp.Message = p.CancellationMessage()
	case order.ExtensionRequest:
		resp.Reason = p.ExtensionReason()
		resp.Days = p.ExtensionDays()
	}
	return resp
}

func toDeliveryResponse(d *order.Delivery) DeliveryResponse {
	files := make([]FileResponse, 0, len(d.Files()))
	for _, f := range d.Files() {
		files = append(files, FileResponse{
			Filename:         f.Filename(),
			OriginalFilename: f.OriginalFilename(),
			Size:             f.Size(),
			UploadedAt:       f.UploadedAt(),
		})
	}
	return DeliveryResponse{
		ID:          d.ID().String(),
		Number:      d.Number(),
		Response:    d.ResponseText(),
		DeliveredAt: d.DeliveredAt(),
		Files:       files,
	}
}

func toEventResponse(e *order.Event) EventResponse {
	return EventResponse{
		ID:        e.ID().String(),
		Type:      string(e.Type()),
		Message:   e.Message(),
		System:    e.IsSystem(),
		CreatedAt: e.CreatedAt(),
	}
}

func toTimelineResponse(entries []services.TimelineEntry) []TimelineEntryResponse {
	resp := make([]TimelineEntryResponse, 0, len(entries))
	for _, entry := range entries {
		item := TimelineEntryResponse{Kind: string(entry.Kind), At: entry.At}
		if entry.Delivery != nil {
			d := toDeliveryResponse(entry.Delivery)
			item.Delivery = &d
		}
		if entry.Event != nil {
			e := toEventResponse(entry.Event)
			item.Event = &e
		}
		resp = append(resp, item)
	}
	return resp
}

func toNotificationResponse(n *notification.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID().String(),
		Type:      string(n.Type()),
		Title:     n.Title(),
		Message:   n.Message(),
		IsRead:    n.IsRead(),
		CreatedAt: n.CreatedAt(),
	}
	if id := n.OrderID(); id != nil {
		s := id.String()
		resp.OrderID = &s
	}
	return resp
}

func toMessageResponse(m *message.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID().String(),
		SenderID:  m.SenderID().String(),
		Text:      m.Text(),
		IsRead:    m.IsRead(),
		CreatedAt: m.CreatedAt(),
	}
}

func toDashboardStatsResponse(s services.DashboardStats) DashboardStatsResponse {
	return DashboardStatsResponse{
		Total:            s.Total,
		Active:           s.Active,
		Delivered:        s.Delivered,
		Late:             s.Late,
		Revision:         s.Revision,
		InDispute:        s.InDispute,
		Completed:        s.Completed,
		Cancelled:        s.Cancelled,
		AverageRating:    s.AverageRating,
		CompletionRate:   s.CompletionRate,
		CancellationRate: s.CancellationRate,
	}
}
