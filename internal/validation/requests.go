package validation

import "todo_api/internal/model"

// CreateTodo validates a create payload.
func CreateTodo(req *model.CreateTodoRequest) Errors {
	return Struct(req)
}

// UpdateTodo validates an update payload.
func UpdateTodo(req *model.UpdateTodoRequest) Errors {
	return Struct(req)
}

// Register validates a registration payload including the password policy.
func Register(req *model.RegisterRequest) Errors {
	errs := Struct(req)
	if req.Password == "" {
		return errs
	}
	for _, msg := range Password(req.Password) {
		errs.Add("password", msg)
	}
	return errs
}

// Login validates a login payload.
func Login(req *model.LoginRequest) Errors {
	return Struct(req)
}
