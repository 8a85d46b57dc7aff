package dto

type CreateListRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

type CreateTodoRequest struct {
	Title string `json:"title" binding:"required"`
}
