package testsupport

import "testing"

func TestCreateAuthor(t *testing.T) {
	author := CreateAuthor()

	if len(author.Books) != 5 {
		t.Fatalf("expected 5 books, got %d", len(author.Books))
	}
	for i, book := range author.Books {
		if book.ID != i+1 {
			t.Errorf("expected book %d to have ID %d, got %d", i, i+1, book.ID)
		}
		if book.Author != author {
			t.Errorf("book %d does not point back at its author", book.ID)
		}
	}
}

func TestCreateUser(t *testing.T) {
	user := CreateUser()

	if user.Profile == nil || user.Profile.User != user {
		t.Error("expected profile to reference its user")
	}
}

func TestCreateRoot(t *testing.T) {
	root := CreateRoot()

	conventional := root.Unconventional.Conventional
	if conventional.Parent != root.Unconventional {
		t.Error("expected conventional node to point back at its holder")
	}
	if conventional.Person == nil {
		t.Error("expected conventional node to hold a person")
	}
}

func TestCreateOrders(t *testing.T) {
	orders := CreateOrders(3, "batch")

	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	for i, o := range orders {
		if o.ID != i+1 || o.Person.ID != o.ID {
			t.Errorf("unexpected ids for order %d: order=%d person=%d", i, o.ID, o.Person.ID)
		}
		if o.Key != "batch" {
			t.Errorf("expected key batch, got %q", o.Key)
		}
	}

	if got := CreateOrders(0, ""); len(got) != 0 {
		t.Errorf("expected no orders, got %d", len(got))
	}
}

func TestCreateTaskAndProject(t *testing.T) {
	task := CreateTask()
	if task.Document.Uploader.ID == task.Order.Person.ID {
		t.Error("expected distinct people on task")
	}

	project := CreateProject()
	if len(project.Documents) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(project.Documents))
	}
	seen := map[int]bool{project.Order.Person.ID: true}
	for _, d := range project.Documents {
		if seen[d.Uploader.ID] {
			t.Errorf("person %d appears twice", d.Uploader.ID)
		}
		seen[d.Uploader.ID] = true
	}
}
