package skills

// DefaultRules returns the shipped core/booster vocabulary. It is a fixed
// keyword table and does not generalize past the listed terms; callers with
// their own taxonomy should build a RuleTable instead.
func DefaultRules() RuleTable {
	return RuleTable{
		CoreTerms: []string{
			// languages
			"python", "java", "javascript", "typescript", "c++", "c#", "go", "rust", "ruby",
			"php", "swift", "kotlin", "scala", "r", "matlab",
			// web
			"react", "angular", "vue", "node.js", "express", "django", "flask", "spring",
			"spring boot", "fastapi", "asp.net", "html", "css", "sass", "webpack", "next.js",
			"nuxt.js", "graphql", "rest", "api",
			// cloud and ops
			"aws", "azure", "gcp", "google cloud", "docker", "kubernetes", "jenkins", "gitlab",
			"github actions", "terraform", "ansible", "chef", "puppet", "ci/cd", "devops",
			"linux", "unix", "bash", "shell scripting",
			// databases
			"sql", "mysql", "postgresql", "mongodb", "redis", "elasticsearch", "dynamodb",
			"cassandra", "oracle", "sql server", "sqlite", "neo4j",
			// data and ml
			"machine learning", "deep learning", "tensorflow", "pytorch", "keras",
			"scikit-learn", "pandas", "numpy", "scipy", "matplotlib", "seaborn",
			"natural language processing", "computer vision", "opencv", "spark", "hadoop",
			"airflow", "mlflow", "data science", "statistics", "artificial intelligence",
			// tools
			"git", "jira", "confluence", "slack", "vs code", "jupyter", "postman", "tableau",
			"power bi", "excel", "kafka", "rabbitmq", "nginx", "apache",
			// testing
			"junit", "pytest", "selenium", "cypress", "jest", "mocha", "testing", "unit testing",
			"integration testing", "tdd", "test automation",
			// mobile
			"ios", "android", "react native", "flutter", "xamarin",
			// security
			"cybersecurity", "encryption", "oauth", "jwt", "ssl", "tls",
			// technical methodologies
			"agile", "scrum", "kanban", "microservices", "rest api", "soap", "design patterns",
			"solid", "oop", "functional programming",
		},
		BoosterTerms: []string{
			// leadership
			"leadership", "team leadership", "mentoring", "coaching", "delegation",
			"strategic thinking", "decision making", "vision", "influence",
			// communication
			"communication", "verbal communication", "written communication", "presentation",
			"public speaking", "active listening", "negotiation", "persuasion", "storytelling",
			"articulation",
			// collaboration
			"teamwork", "collaboration", "cross-functional", "interpersonal",
			"relationship building", "networking", "empathy", "emotional intelligence",
			// problem solving
			"problem solving", "critical thinking", "analytical thinking", "creativity",
			"innovation", "adaptability", "flexibility",
			// work ethic
			"time management", "organization", "attention to detail", "multitasking",
			"prioritization", "self-motivation", "initiative", "work ethic", "reliability",
			"accountability", "responsibility",
			// project management
			"project management", "stakeholder management", "planning", "coordination",
			"resource management", "risk management",
			// traits
			"curiosity", "learning agility", "growth mindset", "resilience",
			"conflict resolution", "customer service", "professionalism",
		},
		CoreKeywords: []string{
			"programming", "development", "framework", "library", "database", "cloud",
			"platform", "tool", "language", "software", "technology", "system",
			"architecture", "infrastructure", "deployment", "api",
		},
		BoosterKeywords: []string{
			"skills", "ability", "management", "building", "working", "thinking", "solving",
			"resolution", "service", "oriented",
		},
	}
}
