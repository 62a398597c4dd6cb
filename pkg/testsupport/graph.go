package testsupport

// Sample object graphs shared by the package tests and the example program.
// Types with an ID field are cacheable under the default convention;
// Document and Unconventional have no key and are walked through.

type Person struct {
	ID   int
	Name string
}

type Order struct {
	ID     int
	Key    string
	Person *Person
}

type Author struct {
	ID    int
	Name  string
	Books []*Book
}

type Book struct {
	ID     int
	Title  string
	Author *Author
}

type User struct {
	ID       int
	UserName string
	Password string
	Profile  *Profile
}

type Profile struct {
	ID   int
	User *User
}

type Document struct {
	Name     string
	Uploader *Person
}

type Task struct {
	ID       int
	Document *Document
	Order    *Order
}

type Project struct {
	ID        int
	Documents []*Document
	Order     *Order
}

type Root struct {
	ID             int
	Unconventional *Unconventional
}

type Unconventional struct {
	Conventional *Conventional
}

type Conventional struct {
	ID     int
	Parent *Unconventional
	Person *Person
}

// City has no ID field; it is keyed by a custom convention in tests.
type City struct {
	PopulationCount int
	Name            string
}

// CreateAuthor returns an author with five books pointing back at it.
func CreateAuthor() *Author {
	author := &Author{ID: 1, Name: "Carlos"}
	author.Books = []*Book{
		{ID: 1, Title: "book 1", Author: author},
		{ID: 2, Title: "book 2", Author: author},
		{ID: 3, Title: "book 3", Author: author},
		{ID: 4, Title: "book 4", Author: author},
		{ID: 5, Title: "book 5", Author: author},
	}
	return author
}

// CreateUser returns a user and profile referencing each other.
func CreateUser() *User {
	user := &User{ID: 1, UserName: "carlos", Password: "1234"}
	user.Profile = &Profile{ID: 2, User: user}
	return user
}

// CreateTask returns a task whose uploader is only reachable through a
// document without a key.
func CreateTask() *Task {
	return &Task{
		ID: 1,
		Document: &Document{
			Name:     "file.txt",
			Uploader: &Person{ID: 1, Name: "uploader"},
		},
		Order: &Order{
			ID:     1,
			Person: &Person{ID: 2, Name: "order owner"},
		},
	}
}

// CreateProject returns a project holding a list of keyless documents.
func CreateProject() *Project {
	return &Project{
		ID: 1,
		Documents: []*Document{
			{Name: "document 1", Uploader: &Person{ID: 1, Name: "person 1"}},
			{Name: "document 2", Uploader: &Person{ID: 2, Name: "person 2"}},
			{Name: "document 3", Uploader: &Person{ID: 3, Name: "person 3"}},
		},
		Order: &Order{
			ID:     1,
			Person: &Person{ID: 4, Name: "person 4"},
		},
	}
}

// CreateRoot returns a graph where a keyed node points back at the keyless
// node that holds it.
func CreateRoot() *Root {
	root := &Root{ID: 1, Unconventional: &Unconventional{}}
	root.Unconventional.Conventional = &Conventional{
		ID:     1,
		Parent: root.Unconventional,
		Person: &Person{ID: 1, Name: "person"},
	}
	return root
}

// CreateOrders returns orders 1..n, each with its own person sharing the
// order's ID.
func CreateOrders(n int, key string) []*Order {
	orders := make([]*Order, 0, n)
	for i := 1; i <= n; i++ {
		orders = append(orders, &Order{
			ID:     i,
			Key:    key,
			Person: &Person{ID: i, Name: "person"},
		})
	}
	return orders
}
