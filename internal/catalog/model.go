package catalog

type Department struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type Category struct {
	ID            string         `json:"id"`
	DepartmentID  string         `json:"department_id"`
	Name          string         `json:"name"`
	IsActive      bool           `json:"is_active"`
	SubCategories []*SubCategory `json:"subcategories,omitempty"`
}

type SubCategory struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	IsActive   bool   `json:"is_active"`
}

type Brand struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	LogoURL  *string `json:"logo_url,omitempty"`
	IsActive bool    `json:"is_active"`
}
