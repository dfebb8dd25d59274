package knowledgeRepo

import "admissions/models"

// College card used by seed answers and the generative system prompt.
const (
	CollegeName    = "Колледж Каспийского университета"
	CollegeAddress = "г. Алматы, проспект Сейфуллина, 521 (уг. ул. Айтеке би)"
	CollegePhones  = "+7 (727) 279 3777, +7 706 430 84 61"
	CollegeEmail   = "college.kou@gmail.com"
	CollegeSite    = "https://ccu.edu.kz"
	CollegeHours   = "Пн–Пт 09:00–17:00, обед 13:00–14:00"
	CollegeMapLink = "https://2gis.kz/almaty?m=76.941783%2C43.261981%2F18.95%2Fr%2F0.6"
	CollegeSocials = "@college.caspian"
)

// ContactsText is the canned contact card.
const ContactsText = "Контакты приёмной комиссии\n" +
	CollegeName + "\n" +
	"Адрес: " + CollegeAddress + "\n" +
	"Тел.: " + CollegePhones + "\n" +
	"E-mail: " + CollegeEmail + "\n" +
	"Сайт: " + CollegeSite + "\n" +
	"Instagram/Facebook/TikTok: " + CollegeSocials + "\n" +
	"Часы работы: " + CollegeHours + "\n" +
	"Карта (2ГИС): " + CollegeMapLink

var seedKnowledge = []models.KnowledgeEntry{
	{
		ID:    "kb-001",
		Title: "Приветственное слово директора",
		Tags:  "директор приветствие миссия ценности студент абитуриент",
		Lang:  "ru",
		Content: "Ануаш Жигер Дуйсенбекулы — директор Колледжа Каспийского университета.\n\n" +
			"Выбор колледжа и профессии — важный шаг. В ККУ перед абитуриентом открываются большие перспективы: " +
			"обучение по современным программам, научные исследования под руководством опытных преподавателей, " +
			"участие в молодежных проектах и внедрение идей в реальную жизнь.\n\n" +
			"Студенты ККУ отличаются высоким уровнем профессиональной подготовки и нестандартным мышлением. " +
			"Выпускники работают на крупных предприятиях, в гос- и коммерческих структурах, международных компаниях.\n\n" +
			"Успешное будущее начинается с правильного выбора!",
	},
	{
		ID:    "kb-002",
		Title: "Студенческие организации",
		Tags:  "клубы организации студенты парламент дебаты спорт творчество elevate speak up жас сарбаз арена мнений caspers art ravens starlight",
		Lang:  "mixed",
		Content: "• Students' Government — активная студенческая жизнь и коммуникация с администрацией.\n" +
			"• NewCast — команда студентов при отделе маркетинга: профориентация, ДОД, консультации, соцсети.\n" +
			"• Starlight — творческое объединение (актёрское мастерство, сценическая речь).\n" +
			"• Art Ravens — студенческая ивент-организация.\n" +
			"• Elevate — еженедельные квесты и тимбилдинги.\n" +
			"• Speak Up — разговорный клуб английского.\n" +
			"• Blitz — студенческий спортивный клуб.\n" +
			"• Жас Сарбаз — военно-патриотическая организация.\n" +
			"• Арена Мнений — дебатный клуб.\n" +
			"• Caspers — музыкальное объединение.",
	},
	{
		ID:    "kb-003",
		Title: "Маркетинг — образовательная программа",
		Tags:  "обучение маркетинг 04140100 4S04140103 сроки языки квалификация",
		Lang:  "ru",
		Content: "Шифр: 04140100\nКвалификация: 4S04140103 — Маркетолог\n\n" +
			"Язык обучения: казахский, русский\nСроки:\n" +
			"• На базе 9 классов — 2 года 10 месяцев\n• На базе 11 классов — 1 год 10 месяцев",
	},
	{
		ID:    "kb-004",
		Title: "Менеджмент — образовательная программа",
		Tags:  "обучение менеджмент 04130100 4S04130101 сроки навыки квалификация",
		Lang:  "ru",
		Content: "Шифр: 04130100\nКвалификация: 4S04130101 — Менеджер\n\n" +
			"Язык обучения: казахский, русский\nСроки:\n" +
			"• На базе 9 классов — 2 года 10 месяцев\n• На базе 11 классов — 1 год 10 месяцев",
	},
	{
		ID:    "kb-005",
		Title: "Правоведение — образовательная программа",
		Tags:  "обучение право юрист 04210100 4S04210101 сроки специализации",
		Lang:  "ru",
		Content: "Шифр: 04210100\nКвалификация: 4S04210101 — Юрист\n\n" +
			"Язык обучения: казахский, русский\nСроки:\n" +
			"• На базе 9 классов — 2 года 10 месяцев\n• На базе 11 классов — 1 год 10 месяцев",
	},
	{
		ID:    "kb-006",
		Title: "Гостиничный бизнес — образовательная программа",
		Tags:  "обучение гостиничный бизнес 10130100 4S10130103 отель туризм сроки",
		Lang:  "ru",
		Content: "Шифр: 10130100\nКвалификация: 4S10130103 — Оперативный менеджер гостиницы\n\n" +
			"Язык обучения: казахский, русский\nСроки:\n" +
			"• На базе 9 классов — 2 года 10 месяцев\n• На базе 11 классов — 1 год 10 месяцев",
	},
	{
		ID:    "kb-007",
		Title: "Туризм — образовательная программа",
		Tags:  "обучение туризм 10150100 4S10150104 менеджер по туризму сроки",
		Lang:  "ru",
		Content: "Шифр: 10150100\nКвалификация: 4S10150104 — Менеджер по туризму\n\n" +
			"Язык обучения: казахский, русский\nСроки:\n" +
			"• На базе 9 классов — 2 года 10 месяцев\n• На базе 11 классов — 1 год 10 месяцев",
	},
	{
		ID:    "kb-008",
		Title: "Переводческое дело — образовательная программа",
		Tags:  "обучение переводчик 02310100 4S02310101 языки сроки китайский турецкий",
		Lang:  "ru",
		Content: "Шифр: 02310100\nКвалификация: 4S02310101 — Переводчик\n\n" +
			"Дополнительно: иностранные языки — китайский и турецкий с носителями.\n" +
			"Язык обучения: казахский, русский\nСроки:\n" +
			"• На базе 9 классов — 2 года 10 месяцев\n• На базе 11 классов — 1 год 10 месяцев",
	},
	{
		ID:    "kb-009",
		Title: "Программное обеспечение — образовательная программа",
		Tags:  "обучение программирование 06130100 4S06130103 разработчик сроки",
		Lang:  "ru",
		Content: "Шифр: 06130100\nКвалификация: 4S06130103 — Разработчик программного обеспечения\n\n" +
			"Язык обучения: русский\nСроки:\n" +
			"• На базе 9 класса — 3 года 10 месяцев\n• На базе 11 класса — 2 года 10 месяцев",
	},
	{
		ID:    "kb-010",
		Title: "Контакты, реквизиты, общая информация",
		Tags:  "контакты адрес телефоны email сайт реквизиты оплата часы работы карта соцсети вопрос",
		Lang:  "ru",
		Content: "Контакты:\nАдрес: " + CollegeAddress + "\nТелефоны: " + CollegePhones +
			"\nE-mail: " + CollegeEmail + "\nСайт: " + CollegeSite +
			"\nСоцсети: " + CollegeSocials + "\nЧасы работы: " + CollegeHours +
			"\nКарта (2ГИС): " + CollegeMapLink,
	},
}

var seedFAQ = []models.FAQEntry{
	{ID: "faq-01", Tags: "адрес", Answer: "Наш адрес: " + CollegeAddress + "\nКарта (2ГИС): " + CollegeMapLink},
	{ID: "faq-02", Tags: "контакты телефон whatsapp email соцсети", Answer: ContactsText},
	{ID: "faq-03", Tags: "график работа часы режим", Answer: "Часы работы: " + CollegeHours},
	{ID: "faq-04", Tags: "программы специальности направления сроки", Answer: "Список программ и сроки обучения: /programs"},
	{ID: "faq-05", Tags: "стоимость цена оплата", Answer: "Стоимость обучения: от 600 000 до 1 000 000 за учебный год."},
	{ID: "faq-06", Tags: "документы поступление список", Answer: "Полный перечень документов: /docs"},
	{ID: "faq-07", Tags: "общежитие", Answer: "Сведения об общежитии: раздел «Общежитие» в главном меню."},
	{ID: "faq-08", Tags: "гранты скидки", Answer: "Информация о грантах/скидках: раздел «Гранты и скидки»."},
	{ID: "faq-09", Tags: "как поступить этапы шаги", Answer: "Этапы: консультация → подача документов → договор и оплата → зачисление. Запишитесь на консультацию: /book"},
	{ID: "faq-10", Tags: "сроки приема приемная кампания дедлайны", Answer: "Сроки приёма документов: с 25 июня по 25 августа."},
	{ID: "faq-11", Tags: "дни открытых дверей дод", Answer: "График ДОД: https://ccu.edu.kz/den-otkrytyx-dverej/"},
}
