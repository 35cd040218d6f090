package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

const leaveRequestCollection = "leave_requests"

type leaveRequestDocument struct {
	ID              string     `bson:"_id"`
	EmployeeID      string     `bson:"employee_id"`
	Type            string     `bson:"type"`
	StartDate       time.Time  `bson:"start_date"`
	EndDate         time.Time  `bson:"end_date"`
	Reason          string     `bson:"reason"`
	Status          string     `bson:"status"`
	ApproverID      *string    `bson:"approver_id,omitempty"`
	DecidedAt       *time.Time `bson:"decided_at,omitempty"`
	ApproverComment *string    `bson:"approver_comment,omitempty"`
	CancelledAt     *time.Time `bson:"cancelled_at,omitempty"`
	CreatedAt       time.Time  `bson:"created_at"`
	UpdatedAt       time.Time  `bson:"updated_at"`
}

func toLeaveRequestDocument(r leave.LeaveRequest) leaveRequestDocument {
	return leaveRequestDocument{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		Type:            string(r.Type),
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		Reason:          r.Reason,
		Status:          string(r.Status),
		ApproverID:      r.ApproverID,
		DecidedAt:       r.DecidedAt,
		ApproverComment: r.ApproverComment,
		CancelledAt:     r.CancelledAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func (d leaveRequestDocument) toDomain() leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:              d.ID,
		EmployeeID:      d.EmployeeID,
		Type:            leave.LeaveType(d.Type),
		StartDate:       d.StartDate.UTC(),
		EndDate:         d.EndDate.UTC(),
		Reason:          d.Reason,
		Status:          leave.LeaveRequestStatus(d.Status),
		ApproverID:      d.ApproverID,
		DecidedAt:       utcPtr(d.DecidedAt),
		ApproverComment: d.ApproverComment,
		CancelledAt:     utcPtr(d.CancelledAt),
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
}

type leaveRequestRepository struct {
	leave *mongo.Collection
}

func NewLeaveRequestRepository(ctx context.Context, db *database.MongoDB) (leave.LeaveRequestRepository, error) {
	coll := db.Collection(leaveRequestCollection)

	if _, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "start_date", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}); err != nil {
		return nil, fmt.Errorf("create leave_requests indexes: %w", err)
	}

	return &leaveRequestRepository{leave: coll}, nil
}

func (r *leaveRequestRepository) Create(ctx context.Context, lr leave.LeaveRequest) (leave.LeaveRequest, error) {
	doc := toLeaveRequestDocument(lr)
	if _, err := r.leave.InsertOne(ctx, doc); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("insert leave request: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	var doc leaveRequestDocument
	err := r.leave.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("find leave request: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *leaveRequestRepository) GetOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	return r.find(ctx, bson.D{
		{Key: "employee_id", Value: employeeID},
		{Key: "status", Value: bson.D{{Key: "$in", Value: bson.A{string(leave.StatusPending), string(leave.StatusApproved)}}}},
		{Key: "start_date", Value: bson.D{{Key: "$lte", Value: end}}},
		{Key: "end_date", Value: bson.D{{Key: "$gte", Value: start}}},
	})
}

// Update matches on the allowed predecessor statuses, so the status check and
// the write are a single atomic operation.
func (r *leaveRequestRepository) Update(ctx context.Context, lr leave.LeaveRequest) error {
	predecessors := bson.A{}
	for _, s := range lr.Status.Predecessors() {
		predecessors = append(predecessors, string(s))
	}

	filter := bson.D{
		{Key: "_id", Value: lr.ID},
		{Key: "status", Value: bson.D{{Key: "$in", Value: predecessors}}},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: string(lr.Status)},
		{Key: "approver_id", Value: lr.ApproverID},
		{Key: "decided_at", Value: lr.DecidedAt},
		{Key: "approver_comment", Value: lr.ApproverComment},
		{Key: "cancelled_at", Value: lr.CancelledAt},
		{Key: "updated_at", Value: lr.UpdatedAt},
	}}}

	res, err := r.leave.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update leave request: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	count, err := r.leave.CountDocuments(ctx, bson.D{{Key: "_id", Value: lr.ID}})
	if err != nil {
		return fmt.Errorf("count leave requests: %w", err)
	}
	if count == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return leave.ErrLeaveRequestModified
}

func (r *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	return r.find(ctx, bson.D{{Key: "employee_id", Value: employeeID}})
}

func (r *leaveRequestRepository) ListByStatus(ctx context.Context, status leave.LeaveRequestStatus) ([]leave.LeaveRequest, error) {
	return r.find(ctx, bson.D{{Key: "status", Value: string(status)}})
}

func (r *leaveRequestRepository) find(ctx context.Context, filter bson.D) ([]leave.LeaveRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}, {Key: "created_at", Value: -1}})
	cursor, err := r.leave.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find leave requests: %w", err)
	}
	var docs []leaveRequestDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode leave requests: %w", err)
	}

	result := make([]leave.LeaveRequest, 0, len(docs))
	for _, d := range docs {
		result = append(result, d.toDomain())
	}
	return result, nil
}
