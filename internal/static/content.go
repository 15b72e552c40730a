package static

import "dashboardfetcher/internal/domain"

// Canned datasets. News and listings point at real section pages so the links
// stay useful even when the headline text is generic.

var stocks = []domain.QuoteRecord{
	domain.NewQuote("TTE", "TotalEnergies", 62.45, "€", 1.2),
	domain.NewQuote("AI.PA", "Air Liquide", 178.90, "€", -0.5),
	domain.NewQuote("PLTR", "Palantir", 23.56, "$", 3.4),
	domain.NewQuote("NVDA", "NVIDIA", 495.22, "$", 2.1),
	domain.NewQuote("GOOGL", "Alphabet", 141.80, "$", 0.8),
	domain.NewQuote("AAPL", "Apple", 185.92, "$", -0.3),
	domain.NewQuote("AMZN", "Amazon", 151.94, "$", 1.5),
	domain.NewQuote("NKE", "Nike", 107.45, "$", -1.2),
}

var indices = []domain.IndexRecord{
	domain.NewIndex("^GSPC", "S&P 500", 4783.45, 0.75),
	domain.NewIndex("^FCHI", "CAC 40", 7589.32, -0.23),
}

var crypto = []domain.QuoteRecord{
	domain.NewQuote("BTC", "Bitcoin", 43250.00, "$", 1.8),
	domain.NewQuote("ETH", "Ethereum", 2280.50, "$", 2.4),
	domain.NewQuote("BNB", "Binancecoin", 312.40, "$", -0.6),
	domain.NewQuote("ADA", "Cardano", 0.58, "$", -1.1),
	domain.NewQuote("SOL", "Solana", 98.70, "$", 4.2),
}

func weather(city string) domain.WeatherRecord {
	feels, humidity, wind, pressure := 30.0, 65.0, 15.0, 1013.0
	return domain.WeatherRecord{
		City:         city,
		TemperatureC: 28,
		FeelsLikeC:   &feels,
		HumidityPct:  &humidity,
		WindKmh:      &wind,
		PressureHPa:  &pressure,
		Condition:    "Clear",
		Description:  "Ensoleillé",
	}
}

var economyNews = []domain.NewsItem{
	{Title: "Marchés financiers : analyse du jour", Description: "Suivez l'évolution des principaux indices boursiers et les dernières tendances des marchés financiers.", Source: "Les Échos", URL: "https://www.lesechos.fr/finance-marches"},
	{Title: "Actualités économiques françaises", Description: "Toute l'actualité économique en France : entreprises, finance, banque, fiscalité et budget.", Source: "Le Monde", URL: "https://www.lemonde.fr/economie/"},
	{Title: "Bourse et marchés internationaux", Description: "Les dernières informations sur les marchés financiers mondiaux, devises et matières premières.", Source: "Boursorama", URL: "https://www.boursorama.com/bourse/actualites/"},
	{Title: "Analyses et perspectives économiques", Description: "Décryptage de l'actualité économique mondiale avec les experts de la finance.", Source: "BFM Business", URL: "https://www.bfmtv.com/economie/"},
	{Title: "Finance et entreprises", Description: "Retrouvez toute l'actualité financière, les résultats d'entreprises et les analyses de marché.", Source: "La Tribune", URL: "https://www.latribune.fr/economie/france/"},
	{Title: "Économie et conjoncture", Description: "Les dernières nouvelles économiques, analyses sectorielles et prévisions macroéconomiques.", Source: "Les Échos", URL: "https://www.lesechos.fr/economie-france"},
	{Title: "Marchés et investissements", Description: "Actualités boursières, conseils d'investissement et stratégies de trading pour investisseurs.", Source: "Investir", URL: "https://www.lerevenu.com/bourse"},
	{Title: "Actualités des cryptomonnaies", Description: "Suivez l'évolution du Bitcoin, Ethereum et des principales cryptos, analyses et perspectives du marché crypto.", Source: "CoinDesk", URL: "https://www.coindesk.com/"},
}

var aiNews = []domain.NewsItem{
	{Title: "Actualités Intelligence Artificielle", Description: "Les dernières avancées en IA, machine learning, deep learning et technologies émergentes.", Source: "TechCrunch", URL: "https://techcrunch.com/tag/artificial-intelligence/"},
	{Title: "Innovations en IA et Machine Learning", Description: "Découvrez les dernières recherches, outils et applications de l'intelligence artificielle.", Source: "MIT Technology Review", URL: "https://www.technologyreview.com/topic/artificial-intelligence/"},
	{Title: "IA : Tendances et développements", Description: "Analyses approfondies des nouvelles technologies d'IA et leur impact sur la société.", Source: "Wired", URL: "https://www.wired.com/tag/artificial-intelligence/"},
	{Title: "Intelligence Artificielle et Technologie", Description: "Suivez l'évolution de l'IA, des chatbots aux modèles de langage avancés.", Source: "The Verge", URL: "https://www.theverge.com/ai-artificial-intelligence"},
	{Title: "Actualités IA et Deep Learning", Description: "Toute l'actualité sur l'intelligence artificielle, les réseaux de neurones et l'apprentissage profond.", Source: "VentureBeat", URL: "https://venturebeat.com/category/ai/"},
	{Title: "IA Générative et LLMs", Description: "Les dernières nouvelles sur les modèles de langage, IA générative et leurs applications.", Source: "OpenAI Blog", URL: "https://openai.com/blog/"},
	{Title: "Recherche et Innovation en IA", Description: "Publications scientifiques, breakthroughs et découvertes dans le domaine de l'IA.", Source: "AI News", URL: "https://artificialintelligence-news.com/"},
	{Title: "IA et Éthique", Description: "Débats sur l'IA responsable, régulations et impact sociétal des technologies d'IA.", Source: "AI Ethics", URL: "https://www.nature.com/subjects/ai-and-machine-learning"},
}

var geopoliticsNews = []domain.NewsItem{
	{Title: "Actualités Internationales", Description: "Suivez toute l'actualité internationale, les événements géopolitiques et les relations internationales.", Source: "Le Monde", URL: "https://www.lemonde.fr/international/"},
	{Title: "Géopolitique et Relations Internationales", Description: "Analyses des tensions mondiales, accords diplomatiques et actualités des grandes puissances.", Source: "France 24", URL: "https://www.france24.com/fr/"},
	{Title: "Actualités Monde et Politique", Description: "L'essentiel de l'actualité mondiale : conflits, diplomatie, sommets internationaux.", Source: "Le Figaro", URL: "https://www.lefigaro.fr/international/"},
	{Title: "Information Internationale en Direct", Description: "Toute l'information sur les événements mondiaux, politique internationale et géostratégie.", Source: "RFI", URL: "https://www.rfi.fr/"},
	{Title: "Actualités Globales et Géopolitique", Description: "Actualités mondiales, analyses géopolitiques et couverture des zones de tensions.", Source: "Reuters", URL: "https://www.reuters.com/world/"},
	{Title: "Politique Internationale et Diplomatie", Description: "Suivez les relations entre États, les conflits régionaux et les négociations internationales.", Source: "AFP", URL: "https://www.afp.com/fr"},
	{Title: "Enjeux Mondiaux et Géostratégie", Description: "Analyses approfondies des grands enjeux géopolitiques contemporains.", Source: "The Guardian", URL: "https://www.theguardian.com/world"},
	{Title: "Actualités Europe et International", Description: "Toute l'actualité européenne et internationale, Union européenne, OTAN et organisations mondiales.", Source: "Euronews", URL: "https://fr.euronews.com/"},
	{Title: "Politique Étrangère et Conflits", Description: "Couverture des zones de conflits, crises humanitaires et interventions internationales.", Source: "BBC World", URL: "https://www.bbc.com/news/world"},
}

var listings = []domain.ListingRecord{
	{Title: "Charmante maison de ville", Price: "295 000€", Surface: "42m²", Rooms: "2 pièces", Distance: "800m plage", Description: "Belle maison rénovée avec terrasse, proche de toutes commodités", Posted: "Il y a 2 jours"},
	{Title: "Studio cosy", Price: "185 000€", Surface: "28m²", Rooms: "1 pièce", Distance: "1.2km plage", Description: "Studio lumineux avec coin kitchenette, idéal investissement locatif", Posted: "Il y a 5 jours"},
	{Title: "Appartement avec jardin", Price: "340 000€", Surface: "48m²", Rooms: "2 pièces", Distance: "600m plage", Description: "Rare ! Appartement avec jardin privatif de 50m², parking inclus", Posted: "Il y a 1 semaine"},
	{Title: "Maison de plain-pied", Price: "275 000€", Surface: "35m²", Rooms: "2 pièces", Distance: "1km plage", Description: "Petite maison de plain-pied, calme, proche forêt et commerces", Posted: "Il y a 3 jours"},
}
