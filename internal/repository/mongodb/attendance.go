// Package mongodb stores attendance and leave requests in MongoDB. Documents
// are keyed by the domain's UUIDv7 ids.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

const attendanceCollection = "attendances"

type attendanceDocument struct {
	ID         string     `bson:"_id"`
	EmployeeID string     `bson:"employee_id"`
	WorkDate   time.Time  `bson:"work_date"`
	CheckIn    *time.Time `bson:"check_in"`
	CheckOut   *time.Time `bson:"check_out"`
	Type       string     `bson:"type"`
	Notes      *string    `bson:"notes,omitempty"`
	CreatedAt  time.Time  `bson:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at"`
}

func toAttendanceDocument(a attendance.Attendance) attendanceDocument {
	return attendanceDocument{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		WorkDate:   attendance.DateOf(a.WorkDate),
		CheckIn:    a.CheckIn,
		CheckOut:   a.CheckOut,
		Type:       string(a.Type),
		Notes:      a.Notes,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func (d attendanceDocument) toDomain() attendance.Attendance {
	return attendance.Attendance{
		ID:         d.ID,
		EmployeeID: d.EmployeeID,
		WorkDate:   attendance.DateOf(d.WorkDate.UTC()),
		CheckIn:    utcPtr(d.CheckIn),
		CheckOut:   utcPtr(d.CheckOut),
		Type:       attendance.AttendanceType(d.Type),
		Notes:      d.Notes,
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

type attendanceRepository struct {
	attendance *mongo.Collection
}

// NewAttendanceRepository ensures the unique (employee_id, work_date) index.
func NewAttendanceRepository(ctx context.Context, db *database.MongoDB) (attendance.AttendanceRepository, error) {
	coll := db.Collection(attendanceCollection)

	if _, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "employee_id", Value: 1}, {Key: "work_date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}); err != nil {
		return nil, fmt.Errorf("create attendance indexes: %w", err)
	}

	return &attendanceRepository{attendance: coll}, nil
}

func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	doc := toAttendanceDocument(a)
	if _, err := r.attendance.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
		return attendance.Attendance{}, fmt.Errorf("insert attendance: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *attendanceRepository) findOne(ctx context.Context, filter bson.D) (*attendance.Attendance, error) {
	var doc attendanceDocument
	err := r.attendance.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	a := doc.toDomain()
	return &a, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	a, err := r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return attendance.Attendance{}, err
	}
	if a == nil {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return *a, nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, workDate time.Time) (*attendance.Attendance, error) {
	return r.findOne(ctx, bson.D{
		{Key: "employee_id", Value: employeeID},
		{Key: "work_date", Value: attendance.DateOf(workDate)},
	})
}

// onceSet matches documents whose field is unset or already equal to value.
func onceSet(field string, value *time.Time) bson.D {
	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: field, Value: nil}},
		bson.D{{Key: field, Value: value}},
	}}}
}

func (r *attendanceRepository) Update(ctx context.Context, a attendance.Attendance) error {
	filter := bson.D{
		{Key: "_id", Value: a.ID},
		{Key: "$and", Value: bson.A{onceSet("check_in", a.CheckIn), onceSet("check_out", a.CheckOut)}},
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "check_in", Value: a.CheckIn},
		{Key: "check_out", Value: a.CheckOut},
		{Key: "type", Value: string(a.Type)},
		{Key: "notes", Value: a.Notes},
		{Key: "updated_at", Value: a.UpdatedAt},
	}}}

	res, err := r.attendance.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	count, err := r.attendance.CountDocuments(ctx, bson.D{{Key: "_id", Value: a.ID}})
	if err != nil {
		return fmt.Errorf("count attendance: %w", err)
	}
	if count == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return attendance.ErrAttendanceModified
}

func (r *attendanceRepository) ListByEmployee(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, error) {
	query := bson.D{{Key: "employee_id", Value: filter.EmployeeID}}
	dateRange := bson.D{}
	if filter.From != nil {
		dateRange = append(dateRange, bson.E{Key: "$gte", Value: attendance.DateOf(*filter.From)})
	}
	if filter.To != nil {
		dateRange = append(dateRange, bson.E{Key: "$lte", Value: attendance.DateOf(*filter.To)})
	}
	if len(dateRange) > 0 {
		query = append(query, bson.E{Key: "work_date", Value: dateRange})
	}

	cursor, err := r.attendance.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "work_date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	var docs []attendanceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode attendance: %w", err)
	}

	result := make([]attendance.Attendance, 0, len(docs))
	for _, d := range docs {
		result = append(result, d.toDomain())
	}
	return result, nil
}

func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.attendance.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	if res.DeletedCount == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
