package httpapi

import (
	"time"

	"commentboard/internal/model"
)

type userResponse struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Married   bool      `json:"married"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type commentResponse struct {
	ID        string       `json:"_id"`
	Commenter userResponse `json:"commenter"`
	Comment   string       `json:"comment"`
	CreatedAt time.Time    `json:"createdAt"`
}

type updateResultResponse struct {
	Acknowledged  bool    `json:"acknowledged"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedID    *string `json:"upsertedId"`
	UpsertedCount int64   `json:"upsertedCount"`
	MatchedCount  int64   `json:"matchedCount"`
}

type deleteResultResponse struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Age:       u.Age,
		Married:   u.Married,
		Comment:   u.Comment,
		CreatedAt: u.CreatedAt,
	}
}

func toUserResponses(users []model.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

func toCommentResponse(c model.PopulatedComment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		Commenter: toUserResponse(c.Commenter),
		Comment:   c.Comment,
		CreatedAt: c.CreatedAt,
	}
}

func toCommentResponses(comments []model.PopulatedComment) []commentResponse {
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	return out
}

func toUpdateResultResponse(r model.UpdateResult) updateResultResponse {
	return updateResultResponse{
		Acknowledged:  true,
		ModifiedCount: r.ModifiedCount,
		MatchedCount:  r.MatchedCount,
	}
}

func toDeleteResultResponse(r model.DeleteResult) deleteResultResponse {
	return deleteResultResponse{
		Acknowledged: true,
		DeletedCount: r.DeletedCount,
	}
}
