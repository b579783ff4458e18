package models

// All lists every persisted model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Profile{},
		&Follow{},
		&Post{},
		&Like{},
		&Comment{},
		&Story{},
		&StoryView{},
		&Report{},
		&Notification{},
	}
}
