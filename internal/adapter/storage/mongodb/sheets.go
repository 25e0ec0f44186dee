package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vertex/internal/domain/model"
)

func owned(ownerID, sheetID string) bson.M {
	return bson.M{"_id": sheetID, "userId": ownerID}
}

// Insert stores sheet, assigning IDs, timestamps and counters.
func (s *Store) Insert(ctx context.Context, sheet *model.Sheet) error {
	now := s.now()
	if sheet.ID == "" {
		sheet.ID = s.newID()
	}
	sheet.CreatedAt, sheet.UpdatedAt = now, now
	sheet.Version = 1
	sheet.TotalQuestions = len(sheet.Questions)
	sheet.SolvedQuestions = 0
	for i := range sheet.Questions {
		if sheet.Questions[i].ID == "" {
			sheet.Questions[i].ID = s.newID()
		}
		if sheet.Questions[i].IsSolved() {
			sheet.SolvedQuestions++
		}
	}

	_, err := s.sheets.InsertOne(ctx, toSheetDoc(sheet))
	return model.NewStorageError("mongo: insert sheet", err)
}

// FindByOwner lists the owner's sheets, newest first.
func (s *Store) FindByOwner(ctx context.Context, ownerID string) ([]model.Sheet, error) {
	const op = "mongo: find sheets"
	cur, err := s.sheets.Find(ctx,
		bson.M{"userId": ownerID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, model.NewStorageError(op, err)
	}
	var docs []sheetDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, model.NewStorageError(op, err)
	}

	sheets := make([]model.Sheet, len(docs))
	for i, d := range docs {
		sheets[i] = d.model()
	}
	return sheets, nil
}

// FindOne loads one sheet owned by ownerID.
func (s *Store) FindOne(ctx context.Context, ownerID, sheetID string) (*model.Sheet, error) {
	var doc sheetDoc
	err := s.sheets.FindOne(ctx, owned(ownerID, sheetID)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrSheetNotFound
	}
	if err != nil {
		return nil, model.NewStorageError("mongo: find sheet", err)
	}
	sheet := doc.model()
	return &sheet, nil
}

// Update replaces the whole document if its version is still the one loaded.
func (s *Store) Update(ctx context.Context, ownerID, sheetID string, fn func(*model.Sheet) error) error {
	sheet, err := s.FindOne(ctx, ownerID, sheetID)
	if err != nil {
		return err
	}
	loaded := sheet.Version
	if err := fn(sheet); err != nil {
		return err
	}

	for i := range sheet.Questions {
		if sheet.Questions[i].ID == "" {
			sheet.Questions[i].ID = s.newID()
		}
	}
	sheet.TotalQuestions = len(sheet.Questions)
	sheet.SolvedQuestions = max(0, sheet.SolvedQuestions)
	sheet.UpdatedAt = s.now()
	sheet.Version = loaded + 1

	filter := owned(ownerID, sheetID)
	filter["version"] = loaded
	res, err := s.sheets.ReplaceOne(ctx, filter, toSheetDoc(sheet))
	if err != nil {
		return model.NewStorageError("mongo: update sheet", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrConflict
	}
	return nil
}

// SetTitle renames a sheet.
func (s *Store) SetTitle(ctx context.Context, ownerID, sheetID, title string) error {
	res, err := s.sheets.UpdateOne(ctx, owned(ownerID, sheetID), bson.M{
		"$set": bson.M{"title": title, "updatedAt": s.now()},
		"$inc": bson.M{"version": 1},
	})
	if err != nil {
		return model.NewStorageError("mongo: set title", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrSheetNotFound
	}
	return nil
}

// UpdateQuestion sets the patched fields through the positional operator.
func (s *Store) UpdateQuestion(ctx context.Context, ownerID, sheetID, questionID string, patch model.QuestionPatch) error {
	set := bson.M{"updatedAt": s.now()}
	if patch.Title != nil {
		set["questions.$.title"] = *patch.Title
	}
	if patch.URL != nil {
		set["questions.$.url"] = *patch.URL
	}
	if patch.SetTopics {
		topics := patch.Topics
		if topics == nil {
			topics = []string{}
		}
		set["questions.$.topics"] = topics
	}
	if patch.Difficulty != nil {
		set["questions.$.difficulty"] = *patch.Difficulty
	}
	if patch.IsBookmarked != nil {
		set["questions.$.isBookmarked"] = *patch.IsBookmarked
	}
	if patch.Notes != nil {
		set["questions.$.notes"] = *patch.Notes
	}

	const op = "mongo: update question"
	filter := owned(ownerID, sheetID)
	filter["questions._id"] = questionID
	res, err := s.sheets.UpdateOne(ctx, filter, bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	})
	if err != nil {
		return model.NewStorageError(op, err)
	}
	if res.MatchedCount == 0 {
		return s.missing(ctx, op, ownerID, sheetID)
	}
	return nil
}

// PushQuestion inserts q at position or appends it, incrementing the total.
func (s *Store) PushQuestion(ctx context.Context, ownerID, sheetID string, q model.Question, position *int) (string, error) {
	if q.ID == "" {
		q.ID = s.newID()
	}
	each := bson.M{"$each": bson.A{toQuestionDoc(q)}}
	if position != nil {
		// $position appends past the end but counts negative values from it.
		each["$position"] = max(0, *position)
	}
	inc := bson.M{"totalQuestions": 1, "version": 1}
	if q.IsSolved() {
		inc["solvedQuestions"] = 1
	}

	res, err := s.sheets.UpdateOne(ctx, owned(ownerID, sheetID), bson.M{
		"$push": bson.M{"questions": each},
		"$inc":  inc,
		"$set":  bson.M{"updatedAt": s.now()},
	})
	if err != nil {
		return "", model.NewStorageError("mongo: push question", err)
	}
	if res.MatchedCount == 0 {
		return "", model.ErrSheetNotFound
	}
	return q.ID, nil
}

// PullQuestion removes a question and decrements the counters in one pipeline
// update, flooring them at zero. The solved decrement is read from the removed
// element itself.
func (s *Store) PullQuestion(ctx context.Context, ownerID, sheetID, questionID string) error {
	const op = "mongo: pull question"
	filter := owned(ownerID, sheetID)
	filter["questions._id"] = questionID

	solvedRemoved := bson.M{"$size": bson.M{"$filter": bson.M{
		"input": "$questions",
		"cond": bson.M{"$and": bson.A{
			bson.M{"$eq": bson.A{"$$this._id", questionID}},
			bson.M{"$eq": bson.A{"$$this.status", string(model.StatusSolved)}},
		}},
	}}}

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "questions", Value: bson.M{"$filter": bson.M{
				"input": "$questions",
				"cond":  bson.M{"$ne": bson.A{"$$this._id", questionID}},
			}}},
			{Key: "totalQuestions", Value: bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{"$totalQuestions", 1}}}}},
			{Key: "solvedQuestions", Value: bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{"$solvedQuestions", solvedRemoved}}}}},
			{Key: "updatedAt", Value: s.now()},
			{Key: "version", Value: bson.M{"$add": bson.A{"$version", 1}}},
		}}},
	}
	res, err := s.sheets.UpdateOne(ctx, filter, pipeline)
	if err != nil {
		return model.NewStorageError(op, err)
	}
	if res.MatchedCount == 0 {
		return s.missing(ctx, op, ownerID, sheetID)
	}
	return nil
}

// Delete removes a sheet.
func (s *Store) Delete(ctx context.Context, ownerID, sheetID string) error {
	res, err := s.sheets.DeleteOne(ctx, owned(ownerID, sheetID))
	if err != nil {
		return model.NewStorageError("mongo: delete sheet", err)
	}
	if res.DeletedCount == 0 {
		return model.ErrSheetNotFound
	}
	return nil
}

// missing tells a missing sheet from a missing question after a positional
// update matched nothing.
func (s *Store) missing(ctx context.Context, op, ownerID, sheetID string) error {
	n, err := s.sheets.CountDocuments(ctx, owned(ownerID, sheetID), options.Count().SetLimit(1))
	if err != nil {
		return model.NewStorageError(op, err)
	}
	if n == 0 {
		return model.ErrSheetNotFound
	}
	return model.ErrQuestionNotFound
}
