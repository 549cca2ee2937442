package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vedaclinic/booking-api/internal/core/domain"
	"github.com/vedaclinic/booking-api/internal/core/ports"
)

const collectionAppointments = "appointments"

// slotIndexName names the partial unique index that makes a held slot
// exclusive at the store level.
const slotIndexName = "uniq_held_slot"

type AppointmentRepository struct {
	col *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{col: db.Collection(collectionAppointments)}
}

// appointmentDoc is the stored shape. slot_held mirrors status != cancelled
// on every write so the partial index can filter on an equality.
type appointmentDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          string             `bson:"user_id,omitempty"`
	UserName        string             `bson:"user_name"`
	UserEmail       string             `bson:"user_email"`
	UserPhone       string             `bson:"user_phone,omitempty"`
	DoctorName      string             `bson:"doctor_name"`
	DoctorSpecialty string             `bson:"doctor_specialty"`
	Date            string             `bson:"appointment_date"`
	Time            string             `bson:"appointment_time"`
	TimeMinutes     int                `bson:"time_minutes"`
	ServiceType     string             `bson:"service_type"`
	Notes           string             `bson:"notes,omitempty"`
	Status          string             `bson:"status"`
	SlotHeld        bool               `bson:"slot_held"`
	CreatedByAdmin  bool               `bson:"created_by_admin"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func toAppointmentDoc(a *domain.Appointment) appointmentDoc {
	return appointmentDoc{
		UserID:          a.UserID,
		UserName:        a.UserName,
		UserEmail:       a.UserEmail,
		UserPhone:       a.UserPhone,
		DoctorName:      a.PractitionerName,
		DoctorSpecialty: a.PractitionerSpecialty,
		Date:            a.Date,
		Time:            a.Time,
		TimeMinutes:     a.TimeMinutes,
		ServiceType:     a.ServiceType,
		Notes:           a.Notes,
		Status:          string(a.Status),
		SlotHeld:        a.Status.HoldsSlot(),
		CreatedByAdmin:  a.CreatedByAdmin,
		CreatedAt:       a.CreatedAt.UTC(),
		UpdatedAt:       a.UpdatedAt.UTC(),
	}
}

func (d appointmentDoc) toDomain() *domain.Appointment {
	return &domain.Appointment{
		ID:                    d.ID.Hex(),
		UserID:                d.UserID,
		UserName:              d.UserName,
		UserEmail:             d.UserEmail,
		UserPhone:             d.UserPhone,
		PractitionerName:      d.DoctorName,
		PractitionerSpecialty: d.DoctorSpecialty,
		Date:                  d.Date,
		Time:                  d.Time,
		TimeMinutes:           d.TimeMinutes,
		ServiceType:           d.ServiceType,
		Notes:                 d.Notes,
		Status:                domain.AppointmentStatus(d.Status),
		CreatedByAdmin:        d.CreatedByAdmin,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
}

// Create inserts a new appointment. A write rejected by the held-slot index
// is reported as domain.ErrSlotUnavailable.
func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}

	res, err := r.col.InsertOne(ctx, toAppointmentDoc(a))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlotUnavailable
		}
		return fmt.Errorf("insert appointment: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid.Hex()
	}
	return nil
}

// FindByID retrieves an appointment by id. When ownerID is non-empty the
// user_id filter is added so foreign appointments read as missing.
func (r *AppointmentRepository) FindByID(ctx context.Context, id, ownerID string) (*domain.Appointment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAppointmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid}
	if ownerID != "" {
		filter["user_id"] = ownerID
	}

	var doc appointmentDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns appointments matching f ordered by date, then time.
func (r *AppointmentRepository) List(ctx context.Context, f ports.AppointmentFilter) ([]*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "appointment_date", Value: 1},
		{Key: "time_minutes", Value: 1},
	})

	cur, err := r.col.Find(ctx, listFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer cur.Close(ctx)

	var docs []appointmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}

	out := make([]*domain.Appointment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func listFilter(f ports.AppointmentFilter) bson.M {
	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.PractitionerName != "" {
		filter["doctor_name"] = f.PractitionerName
	}
	if f.Date != "" {
		filter["appointment_date"] = f.Date
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"user_name": re},
			bson.M{"user_email": re},
			bson.M{"doctor_name": re},
			bson.M{"service_type": re},
		}
	}
	return filter
}

// CountInSlot counts held appointments in the slot, optionally excluding one.
func (r *AppointmentRepository) CountInSlot(ctx context.Context, q ports.SlotQuery) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"doctor_name":      q.Slot.PractitionerName,
		"appointment_date": q.Slot.Date,
		"time_minutes":     q.Slot.Time.Minutes(),
		"slot_held":        true,
	}
	if q.ExcludeID != "" {
		if oid, err := primitive.ObjectIDFromHex(q.ExcludeID); err == nil {
			filter["_id"] = bson.M{"$ne": oid}
		}
	}

	n, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count slot: %w", err)
	}
	return n, nil
}

// Update overwrites the mutable fields of an appointment.
func (r *AppointmentRepository) Update(ctx context.Context, a *domain.Appointment) error {
	oid, err := primitive.ObjectIDFromHex(a.ID)
	if err != nil {
		return domain.ErrAppointmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toAppointmentDoc(a)
	update := bson.M{"$set": bson.M{
		"user_name":        doc.UserName,
		"user_email":       doc.UserEmail,
		"user_phone":       doc.UserPhone,
		"doctor_name":      doc.DoctorName,
		"doctor_specialty": doc.DoctorSpecialty,
		"appointment_date": doc.Date,
		"appointment_time": doc.Time,
		"time_minutes":     doc.TimeMinutes,
		"service_type":     doc.ServiceType,
		"notes":            doc.Notes,
		"status":           doc.Status,
		"slot_held":        doc.SlotHeld,
		"updated_at":       doc.UpdatedAt,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlotUnavailable
		}
		return fmt.Errorf("update appointment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

// EnsureIndexes creates the held-slot uniqueness index plus lookup indexes.
func (r *AppointmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "doctor_name", Value: 1},
				{Key: "appointment_date", Value: 1},
				{Key: "time_minutes", Value: 1},
			},
			Options: options.Index().
				SetName(slotIndexName).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"slot_held": true}),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "appointment_date", Value: 1}}},
		{Keys: bson.D{{Key: "appointment_date", Value: 1}, {Key: "time_minutes", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
