package quiz

// NumQuestions is the fixed length of the placement quiz.
const NumQuestions = 10

// Question is one multiple-choice item of the placement quiz.
type Question struct {
	ID      int               `json:"id"`
	Text    string            `json:"text"`
	Options map[string]string `json:"options"` // letter -> text
	Correct string            `json:"-"`
	Topic   string            `json:"topic"`
}

// OptionLetters lists option keys in display order.
var OptionLetters = []string{"a", "b", "c", "d"}

// questions is indexed by ID-1.
var questions = [NumQuestions]Question{
	{
		ID:      1,
		Text:    "What is the correct file extension for Python files?",
		Options: map[string]string{"a": ".pyth", "b": ".pt", "c": ".py", "d": ".pyt"},
		Correct: "c",
		Topic:   "Python syntax and file handling",
	},
	{
		ID:      2,
		Text:    "What is the output of print(3 + 2 * 2)?",
		Options: map[string]string{"a": "10", "b": "7", "c": "12", "d": "9"},
		Correct: "b",
		Topic:   "Python operator precedence",
	},
	{
		ID:      3,
		Text:    "Which data structure stores key-value pairs?",
		Options: map[string]string{"a": "List", "b": "Set", "c": "Tuple", "d": "Dictionary"},
		Correct: "d",
		Topic:   "Python data structures - Dictionary",
	},
	{
		ID:      4,
		Text:    "Which library is used for numerical computing?",
		Options: map[string]string{"a": "NumPy", "b": "Seaborn", "c": "Flask", "d": "BeautifulSoup"},
		Correct: "a",
		Topic:   "Numerical computing with NumPy",
	},
	{
		ID:   5,
		Text: "What is the purpose of the fit() method in machine learning?",
		Options: map[string]string{
			"a": "It trains the model",
			"b": "It tests the model",
			"c": "It saves the model",
			"d": "It visualizes the model",
		},
		Correct: "a",
		Topic:   "Machine learning model training concepts",
	},
	{
		ID:   6,
		Text: "What does 'self' refer to in a class method?",
		Options: map[string]string{
			"a": "The method name",
			"b": "The class itself",
			"c": "An instance of the class",
			"d": "A global variable",
		},
		Correct: "c",
		Topic:   "OOP and class methods in Python",
	},
	{
		ID:      7,
		Text:    "Which activation function adds non-linearity in a deep neural network?",
		Options: map[string]string{"a": "Sigmoid", "b": "ReLU", "c": "Tanh", "d": "All of the above"},
		Correct: "d",
		Topic:   "Deep learning activation functions",
	},
	{
		ID:   8,
		Text: "Which technique helps prevent overfitting in neural networks?",
		Options: map[string]string{
			"a": "Batch normalization",
			"b": "Regularization",
			"c": "Dropout",
			"d": "Backpropagation",
		},
		Correct: "c",
		Topic:   "Overfitting and regularization techniques",
	},
	{
		ID:   9,
		Text: "What is the purpose of gradient descent?",
		Options: map[string]string{
			"a": "Making decisions",
			"b": "Optimizing parameters",
			"c": "Increasing complexity",
			"d": "Normalizing dataset",
		},
		Correct: "b",
		Topic:   "Gradient descent and optimization in ML",
	},
	{
		ID:   10,
		Text: "What is the main difference between supervised and unsupervised learning?",
		Options: map[string]string{
			"a": "Supervised doesn't use labels",
			"b": "Supervised is faster",
			"c": "Supervised uses labels",
			"d": "No difference",
		},
		Correct: "c",
		Topic:   "Difference between supervised and unsupervised learning",
	},
}

// Questions returns a copy of the quiz in ID order.
func Questions() []Question {
	out := make([]Question, NumQuestions)
	copy(out, questions[:])
	return out
}

// QuestionByID returns the question with the given ID.
func QuestionByID(id int) (Question, bool) {
	if id < 1 || id > NumQuestions {
		return Question{}, false
	}
	return questions[id-1], true
}
